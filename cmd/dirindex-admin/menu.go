/*
* The MIT License (MIT)
*
* Copyright (c) 2016,2017,2020  aerth <aerth@riseup.net>
*
* Permission is hereby granted, free of charge, to any person obtaining a copy
* of this software and associated documentation files (the "Software"), to deal
* in the Software without restriction, including without limitation the rights
* to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
* copies of the Software, and to permit persons to whom the Software is
* furnished to do so, subject to the following conditions:
*
* The above copyright notice and this permission notice shall be included in all
* copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
* IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
* FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
* AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
* LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
* OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
* SOFTWARE.
 */

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aerth/clix"
	diamond "github.com/aerth/dirindex/lib"
)

// menu labels and the commands they send
var menuCommands = []struct{ label, cmd string }{
	{"Check Server Status", cmdStatus},
	{"Single User Mode", "telinit 1"},
	{"Multi User Mode", "telinit 3"},
}

func buildWindow() *clix.MenuBar {
	mm := clix.NewMenuBar(nil)
	mm.SetMessage("⋄ DIRINDEX ADMIN")
	scrol := clix.NewScrollFrame("⋄")
	mm.AttachScroller(scrol)
	return mm
}

func buildMenu(mm *clix.MenuBar) {
	for _, item := range menuCommands {
		mm.NewItem(item.label)
	}
	entry := clix.NewEntry(mm.GetScreen())
	mm.AddEntry("Command", entry) // manual command
	mm.NewItem("Quit Admin")
}

func handleKeyMouse(mm *clix.MenuBar) *clix.EventHandler {
	ev := clix.NewEventHandler()
	ev.AddMenuBar(mm)
	ev.Launch()
	mm.GetScreen().Show()
	return ev
}

// menuCommand maps a menu selection to a command line
func menuCommand(selected string) string {
	if selected == "Quit Admin" {
		return cmdQuit
	}
	for _, item := range menuCommands {
		if item.label == selected {
			return item.cmd
		}
	}
	return strings.TrimSpace(selected)
}

func handleMenuInput(mm *clix.MenuBar, ev *clix.EventHandler) string {
	select {
	case <-time.After(*refreshtime):
		return cmdStatus
	case c := <-ev.Output:
		mm.GetScreen().Show()
		s, _ := c.(string)
		return menuCommand(s)
	}
}

func doCUI(client *diamond.Client) {
	mm := buildWindow()
	buildMenu(mm)
	msg := "Connected to: " + client.ServerName
	for {
		mm.GetScroller().Buffer.Truncate(0)
		mm.GetScroller().Buffer.WriteString(msg)
		mm.GetScroller().Buffer.WriteString("\n")
		mm.GetScroller().ScrollToEnd()

		ev := handleKeyMouse(mm)
		cmd := handleMenuInput(mm, ev)
		switch cmd {
		case "":
			continue
		case cmdQuit:
			mm.GetScreen().Fini()
			return
		}

		argv := strings.Fields(cmd)
		reply, err := client.Send(argv[0], argv[1:]...)
		if err != nil {
			mm.GetScreen().Fini()
			if reply != "" {
				fmt.Println(reply)
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(111)
		}
		msg = fmt.Sprintf("SENT: %s\nREPLY: %s", cmd, reply)
		if reply == "DONE" {
			if status, err := client.Send(cmdStatus); err == nil {
				msg += "\n\n" + status
			}
		}
		mm.GetScreen().Show()
	}
}
