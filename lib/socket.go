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

package diamond

import (
	"fmt"
	"strconv"
	"strings"
)

// packet is the rpc receiver on the admin socket
type packet struct {
	parent *Server
}

// Command processes one admin command line.
//
//	HELLO from <name>   greeting, replies with the server name
//	status              Status report
//	echo <text>         replies text
//	runlevel            current runlevel
//	telinit <n>         shift to runlevel n, replies DONE
//	kick                shift to runlevel 0 if Kickable
func (p *packet) Command(args string, reply *string) error {
	s := p.parent
	if s.Config.Debug {
		s.Log.Printf("RECV: %s", args)
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	cmd, rest := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	switch {
	case strings.HasPrefix(args, "HELLO from "):
		s.Log.Println(args)
		*reply = "HELLO from " + s.Config.Name
	case cmd == "status":
		*reply = s.Status()
	case cmd == "echo":
		if rest == "" {
			return fmt.Errorf("empty argument")
		}
		*reply = rest
	case cmd == "runlevel" && rest == "":
		*reply = strconv.Itoa(s.GetRunlevel())
	case cmd == "telinit", cmd == "runlevel":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("need runlevel to switch to (digit): %q", rest)
		}
		if err := s.Runlevel(n); err != nil {
			return err
		}
		*reply = "DONE"
	case cmd == "kick":
		if !s.Config.Kickable {
			*reply = "NOWAY"
			return fmt.Errorf("NOWAY")
		}
		*reply = "OKAY"
		return s.Runlevel(0)
	default:
		return fmt.Errorf("unknown command %q", args)
	}
	return nil
}
