// internal/sequence/sequence.go

// Package sequence generates human-readable monotonic identifiers of the
// form PREFIX-0001 by scanning for the highest existing value. The scheme
// is race-prone under concurrent creates, so every generated column also
// carries a unique index: a duplicate collides at insert time and the
// caller retries instead of silently accepting it.
package sequence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// NextID returns the next identifier for the given table column. Width is
// the zero-padded digit count. A stored suffix that fails to parse is
// treated as zero rather than failing the whole generation.
func NextID(tx *gorm.DB, table, column, prefix string, width int) (string, error) {
	var codes []string
	err := tx.Table(table).
		Where(column+" LIKE ?", prefix+"-%").
		Pluck(column, &codes).Error
	if err != nil {
		return "", fmt.Errorf("failed to scan existing %s ids: %w", prefix, err)
	}

	highest := 0
	for _, code := range codes {
		suffix := strings.TrimPrefix(code, prefix+"-")
		n, err := strconv.Atoi(suffix)
		if err != nil {
			n = 0
		}
		if n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%s-%0*d", prefix, width, highest+1), nil
}

// IsDuplicate reports whether err is a unique-constraint collision, i.e. a
// concurrently issued identifier. Callers regenerate and retry the insert.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
