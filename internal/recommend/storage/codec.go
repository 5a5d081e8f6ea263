// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

// errChecksum marks a payload whose checksum does not match its envelope.
var errChecksum = errors.New("checksum mismatch")

// envelope is the stored form of a single blob.
type envelope struct {
	RunID          string
	Blob           Blob
	Checksum       string
	SavedAt        time.Time
	CompressedData []byte
}

// encodeBlob serializes payload and wraps it in an envelope.
func encodeBlob(runID string, blob Blob, payload any) ([]byte, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode %s: %w", blob, err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress %s: %w", blob, err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression of %s: %w", blob, err)
	}

	var out bytes.Buffer
	env := envelope{
		RunID:          runID,
		Blob:           blob,
		Checksum:       hex.EncodeToString(hash[:]),
		SavedAt:        time.Now().UTC(),
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(&out).Encode(env); err != nil {
		return nil, fmt.Errorf("write %s envelope: %w", blob, err)
	}
	return out.Bytes(), nil
}

// decodeBlob verifies an envelope and decodes its payload into target. It
// returns the envelope with CompressedData cleared.
func decodeBlob(data []byte, target any) (envelope, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("read envelope: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return envelope{}, fmt.Errorf("decompress: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return envelope{}, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != env.Checksum {
		return envelope{}, fmt.Errorf("%w: expected %s, got %s", errChecksum, env.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return envelope{}, fmt.Errorf("decode payload: %w", err)
	}

	env.CompressedData = nil
	return env, nil
}
