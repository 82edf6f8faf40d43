// Command client is a minimal line-oriented TCP client for exercising a
// StreamLine server from a terminal. It is explicitly not the terminal UI
// an end-user client would have (spec.md §1 Non-goals exclude the TUI/E2EE
// layers); it dials, echoes stdin lines to the server, and prints whatever
// frames come back, enough to drive the protocol by hand or from a script.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	var addr string
	pflag.StringVar(&addr, "addr", "localhost:7040", "server address to dial")
	pflag.Parse()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: dialing %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Println(scanner.Text())
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(conn, scanner.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "error: write: %v\n", err)
			break
		}
	}
	conn.Close()
	<-done
}
