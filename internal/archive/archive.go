// Package archive streams respondent records out of a survey-year archive:
// a zip file holding exactly one fixed-width text member encoded in Latin-1.
package archive

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// ErrMemberCount reports an archive that does not hold exactly one member.
var ErrMemberCount = errors.New("archive must contain exactly one member")

// Records is a forward-only line stream over an archive's single member.
// It is not restartable; Close must be called once consumption ends,
// successfully or not.
type Records struct {
	rc      *zip.ReadCloser
	member  io.ReadCloser
	scanner *bufio.Scanner
	err     error
}

// Open opens the archive at path and positions the stream at its first
// record. The member's bytes are decoded from ISO 8859-1, so every byte
// maps to exactly one character and field columns stay aligned.
func Open(path string) (*Records, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if len(rc.File) != 1 {
		rc.Close()
		return nil, fmt.Errorf("%w: %s has %d", ErrMemberCount, path, len(rc.File))
	}
	member, err := rc.File[0].Open()
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open archive member: %w", err)
	}
	sc := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(member))
	// Survey records run past 2000 columns; the default scanner cap is too small.
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Records{rc: rc, member: member, scanner: sc}, nil
}

// Next advances to the next record, returning false at end of stream or on
// a read error (see Err).
func (r *Records) Next() bool {
	if r.err != nil {
		return false
	}
	if r.scanner.Scan() {
		return true
	}
	r.err = r.scanner.Err()
	return false
}

// Record returns the current record's text. Valid only after a true Next.
func (r *Records) Record() string { return r.scanner.Text() }

// Err returns the first read error encountered, if any.
func (r *Records) Err() error { return r.err }

// Close releases the member and archive handles.
func (r *Records) Close() error {
	merr := r.member.Close()
	if err := r.rc.Close(); err != nil {
		return err
	}
	return merr
}
