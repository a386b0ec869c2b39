package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"tasktrack/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a 1-based task number from args.
//
// Parsing rules:
// 1. No args → ErrTaskRefRequired
// 2. First arg all digits → task number
// 3. Otherwise → error: invalid task reference: <ref>
//
// Extra args are rejected so `toggle 1 2` is not silently half-applied.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// taskByNumber returns the task at 1-based position num.
func taskByNumber(list []service.Task, num int) (service.Task, error) {
	if num < 1 || num > len(list) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return list[num-1], nil
}
