package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const maxLineBytes = 1 << 20

// parseValue decodes one value token. The literal "nan" is the sentinel;
// a signed "-nan" as written by C++ std::to_string also maps to NaN.
// Out-of-range numbers keep the ±Inf (or zero) ParseFloat rounds them to.
func parseValue(tok string) (float64, error) {
	if tok == NaNSentinel {
		return math.NaN(), nil
	}
	val, err := strconv.ParseFloat(tok, 64)
	if errors.Is(err, strconv.ErrRange) {
		return val, nil
	}
	if err != nil {
		if strings.EqualFold(strings.TrimLeft(tok, "+-"), NaNSentinel) {
			return math.NaN(), nil
		}
		return 0, fmt.Errorf("%w %q: %v", ErrBadValue, tok, err)
	}
	return val, nil
}

// parseRow converts the tokens of one accepted line into an index and values.
func parseRow(fields []string, numValues int) (int, []float64, error) {
	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, nil, fmt.Errorf("%w %q: %v", ErrBadIndex, fields[0], err)
	}
	values := make([]float64, numValues)
	for i := 0; i < numValues; i++ {
		values[i], err = parseValue(fields[i+1])
		if err != nil {
			return 0, nil, err
		}
	}
	return index, values, nil
}

// Load reads a whitespace-delimited data file into a Dataset.
// The file is closed before Load returns.
func Load(filepath string, opts Options) (*Dataset, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, &FileAccessError{Path: filepath, Err: err}
	}
	defer file.Close()

	ds, err := Parse(file, opts)
	if err != nil {
		var fae *FileAccessError
		if errors.As(err, &fae) {
			fae.Path = filepath
		}
		return nil, err
	}
	return ds, nil
}

// Parse reads rows from r in a single forward pass.
func Parse(r io.Reader, opts Options) (*Dataset, error) {
	variant := opts.variant()
	policy := opts.Policy()
	ds := NewDataset(variant)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		fields := strings.Fields(text)

		if !variant.accepts(len(fields)) {
			if policy == PolicySkip {
				continue
			}
			return nil, &ParseError{
				Line: lineNo,
				Text: text,
				Err:  fmt.Errorf("%w: got %d", ErrFieldCount, len(fields)),
			}
		}

		index, values, err := parseRow(fields, variant.valueColumns())
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
		ds.appendRow(index, values)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{
				Line: lineNo + 1,
				Err:  fmt.Errorf("%w: line exceeds %d bytes", err, maxLineBytes),
			}
		}
		return nil, &FileAccessError{Err: err}
	}

	return ds, nil
}
