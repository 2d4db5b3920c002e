package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

var (
	reader = bufio.NewReader(os.Stdin)
	out    io.Writer = os.Stdout
	// interactive reports whether passwords can be read without echo
	interactive = func() bool { return term.IsTerminal(int(syscall.Stdin)) }
)

// SetIO redirects prompts, used by tests and piped input
func SetIO(in io.Reader, w io.Writer) {
	reader = bufio.NewReader(in)
	out = w
	interactive = func() bool { return false }
}

func readLine() (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	fmt.Fprint(out, label)
	input, err := readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// PromptDefault prompts for a string, keeping current when the answer is empty
func PromptDefault(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]: ", strings.TrimSuffix(strings.TrimSpace(label), ":"), current)
	}
	input, err := PromptString(label)
	if err != nil {
		return "", err
	}
	if input == "" {
		return current, nil
	}
	return input, nil
}

// PromptPassword prompts user for a password (hidden input)
func PromptPassword(label string) (string, error) {
	fmt.Fprint(out, label)

	if !interactive() {
		return readLine()
	}

	bytepw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}

	fmt.Fprintln(out)

	return string(bytepw), nil
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	fmt.Fprint(out, label+" (y/n) ")
	input, err := readLine()
	if err != nil {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(input))
	return response == "y" || response == "yes", nil
}

// PromptSelect prompts user to select from options
func PromptSelect(label string, options []string) (int, error) {
	fmt.Fprintln(out, label)
	for i, opt := range options {
		fmt.Fprintf(out, "%d) %s\n", i+1, opt)
	}

	fmt.Fprint(out, "Select option: ")
	input, err := readLine()
	if err != nil {
		return -1, err
	}

	var selection int
	if _, err := fmt.Sscanf(strings.TrimSpace(input), "%d", &selection); err != nil {
		return -1, err
	}

	if selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}

	return selection - 1, nil
}

// PromptMultilineString reads lines until a lone "." or end of input
func PromptMultilineString(label string) (string, error) {
	fmt.Fprintln(out, label+" (end with a line containing only '.')")
	var lines []string
	for {
		line, err := readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
