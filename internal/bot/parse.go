package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/captriphead/telegram-dalle-bot/internal/storage"
)

// parseSizeInput accepts two integers separated by whitespace, "x" or "*"
// (case-insensitive). Each dimension is capped at MaxDimension; there is
// no lower clamp beyond integer parsing itself.
func parseSizeInput(input string) (width, height int, err error) {
	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "x", " ")
	normalized = strings.ReplaceAll(normalized, "*", " ")

	fields := strings.Fields(normalized)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two dimensions, got %d", len(fields))
	}

	width, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width %q: %w", fields[0], err)
	}
	height, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height %q: %w", fields[1], err)
	}

	if width > storage.MaxDimension {
		width = storage.MaxDimension
	}
	if height > storage.MaxDimension {
		height = storage.MaxDimension
	}
	return width, height, nil
}

// parseGuidanceInput accepts one float and clamps it to [1, 20].
func parseGuidanceInput(input string) (float64, error) {
	guidance, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid guidance scale %q: %w", input, err)
	}
	if guidance < storage.MinGuidanceScale {
		guidance = storage.MinGuidanceScale
	}
	if guidance > storage.MaxGuidanceScale {
		guidance = storage.MaxGuidanceScale
	}
	return guidance, nil
}

// parseSeedInput accepts one integer. -1 is stored verbatim and means
// "random per generation"; anything else is clamped to [0, MaxSeed].
func parseSeedInput(input string) (int64, error) {
	seed, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", input, err)
	}
	if seed == storage.RandomSeed {
		return seed, nil
	}
	if seed < 0 {
		seed = 0
	}
	if seed > storage.MaxSeed {
		seed = storage.MaxSeed
	}
	return seed, nil
}
