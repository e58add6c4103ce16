package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/domain"
)

func LoadText(path string) (domain.Pools, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Pools{}, Report{Source: path}, fmt.Errorf("open catalog %q: %w", path, err)
	}
	defer f.Close()

	pools, rep, err := ReadText(f)
	rep.Source = path
	if err != nil {
		return domain.Pools{}, rep, fmt.Errorf("read catalog %q: %w", path, err)
	}
	return pools, rep, nil
}

// maxLineLen bounds a single catalog line. Longer lines are skipped.
const maxLineLen = 1 << 20

// ReadText parses the line format
//
//	slotKey setKey rarity level mainStatKey key1:value1 key2:value2 ...
//
// Blank lines and lines starting with '#' are ignored.
func ReadText(r io.Reader) (domain.Pools, Report, error) {
	var pools domain.Pools
	var rep Report

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Pools{}, rep, err
		}
		lineNo++
		if tooLong {
			rep.skip("line %d: longer than %d bytes", lineNo, maxLineLen)
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			rep.skip("line %d: expected at least 5 fields, got %d", lineNo, len(fields))
			continue
		}
		subs, err := parseSubstats(strings.Join(fields[5:], " "))
		if err != nil {
			rep.skip("line %d: %v", lineNo, err)
			continue
		}
		rec := record{
			slot:     fields[0],
			set:      fields[1],
			rarity:   fields[2],
			level:    fields[3],
			mainStat: fields[4],
			substats: subs,
		}
		it, err := rec.item()
		if err != nil {
			rep.skip("line %d: %v", lineNo, err)
			continue
		}
		pools.Add(it)
		rep.Loaded++
	}
	return pools, rep, nil
}

// readLine returns the next line without its terminator. A line over
// maxLineLen is consumed in full and reported as too long.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineLen {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}
