// Command apikey-hash prints the bcrypt hash of an API key for use as
// API_KEY_HASH. The key is read from the first argument or from stdin.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/example/ec-analytics/internal/auth"
)

func main() {
	var key string
	if len(os.Args) > 1 {
		key = os.Args[1]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "usage: apikey-hash <key>  (or pipe the key on stdin)")
			os.Exit(2)
		}
		key = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashAPIKey(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apikey-hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
