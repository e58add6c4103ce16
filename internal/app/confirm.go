package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks whether to start the search. Only a first word of exactly
// "y" or "Y" counts as yes; anything else, including EOF, declines.
func Confirm(in io.Reader, out io.Writer, label string) bool {
	fmt.Fprintf(out, "Start search using %s? Y/N : ", label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	fields := strings.Fields(line)
	return len(fields) > 0 && (fields[0] == "y" || fields[0] == "Y")
}
