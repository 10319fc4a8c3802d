package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thenoetrevino/kanban/internal/models"
)

// maxLabelSlot is the highest label slot a card can carry
const maxLabelSlot = 63

// ParseLabels maps a comma separated list of label slots, e.g. "0,3", to a
// mask
func ParseLabels(s string) (models.LabelMask, error) {
	var mask models.LabelMask
	if strings.TrimSpace(s) == "" {
		return mask, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil || n > maxLabelSlot {
			return 0, models.Validation(fmt.Sprintf("invalid label slot '%s' (must be 0-%d)", part, maxLabelSlot))
		}
		mask = mask.With(uint(n))
	}
	return mask, nil
}

// ParseFlags maps a comma separated list of card flags to their bitset
func ParseFlags(s string) (models.CardFlags, error) {
	flags, ok := models.ParseCardFlags(s)
	if !ok {
		return 0, models.Validation(fmt.Sprintf("invalid flags '%s' (must be: archived, locked, done)", s))
	}
	return flags, nil
}

// ParseRole maps a role name to its ordinal
func ParseRole(s string) (models.Role, error) {
	role, err := models.ParseRole(s)
	if err != nil {
		return role, models.Wrap(models.KindValidation, "invalid role", err)
	}
	return role, nil
}

// ReadContent returns value, or all of in when value is "-"
func ReadContent(value string, in io.Reader) (string, error) {
	if value != "-" {
		return value, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", models.Wrap(models.KindValidation, "failed to read content from stdin", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// Confirm asks a yes/no question on stderr and reads the answer from in
func Confirm(in io.Reader, prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s (y/N): ", prompt)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
