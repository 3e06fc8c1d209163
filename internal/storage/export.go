package storage

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/navkeep-go/internal/core/domain"
	"github.com/yndnr/navkeep-go/pkg/crypto/adaptive"
)

// Magic bytes identify export bundle streams.
var bundleMagic = []byte("NAVKBNDL")

const (
	bundleVersion    = 1
	bundleChecksum   = 32
	BundleIDPrefix   = "nkbd-"
	maxBundlePayload = 16 << 20 // 16MB, far beyond any real bundle
)

// bundleAAD binds encrypted payloads to the bundle format.
var bundleAAD = []byte("navkeep/export-bundle/v1")

// Bundle is the diagnostic package support asks users for: the
// persisted state plus the decision journal, in one integrity-checked
// stream.
type Bundle struct {
	// State is the persisted navigation state, nil when none existed.
	State *domain.NavigationState `json:"state"`

	// Decisions is the journal, newest first.
	Decisions []*domain.DecisionRecord `json:"decisions"`
}

// BundleInfo describes a written or parsed bundle.
type BundleInfo struct {
	ID            string `json:"id"`
	Version       int    `json:"version"`
	CreatedAt     int64  `json:"created_at"`
	Encrypted     bool   `json:"encrypted"`
	StatePresent  bool   `json:"state_present"`
	DecisionCount int    `json:"decision_count"`
	Checksum      string `json:"checksum"`
	Size          int64  `json:"size"`
}

type bundleHeader struct {
	Version       int    `json:"version"`
	ID            string `json:"id"`
	CreatedAt     int64  `json:"created_at"`
	Encrypted     bool   `json:"encrypted"`
	StatePresent  bool   `json:"state_present"`
	DecisionCount int    `json:"decision_count"`
}

// WriteBundle streams a bundle: magic, length-prefixed JSON header,
// length-prefixed payload (sealed when cipher != nil), sha256 trailer
// over everything before it.
func WriteBundle(w io.Writer, b *Bundle, cipher adaptive.Cipher, now time.Time) (*BundleInfo, error) {
	if b == nil {
		return nil, domain.ErrInvalidArgument.WithDetails("bundle is nil")
	}

	id, err := generateBundleID(now)
	if err != nil {
		return nil, err
	}

	hash := sha256.New()
	counted := &countingWriter{w: io.MultiWriter(w, hash)}

	if _, err := counted.Write(bundleMagic); err != nil {
		return nil, domain.ErrBundleWrite.WithCause(err)
	}

	hdr := bundleHeader{
		Version:       bundleVersion,
		ID:            id,
		CreatedAt:     now.UnixMilli(),
		Encrypted:     cipher != nil,
		StatePresent:  b.State != nil,
		DecisionCount: len(b.Decisions),
	}
	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		return nil, domain.ErrBundleWrite.WithCause(err)
	}
	if err := writeBlock(counted, hdrJSON); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(b)
	if err != nil {
		return nil, domain.ErrBundleWrite.WithCause(err)
	}
	if cipher != nil {
		payload, err = cipher.Encrypt(payload, bundleAAD)
		if err != nil {
			return nil, domain.ErrBundleWrite.WithCause(err)
		}
	}
	if err := writeBlock(counted, payload); err != nil {
		return nil, err
	}

	sum := hash.Sum(nil)
	if _, err := w.Write(sum); err != nil {
		return nil, domain.ErrBundleWrite.WithCause(err)
	}

	return &BundleInfo{
		ID:            id,
		Version:       bundleVersion,
		CreatedAt:     hdr.CreatedAt,
		Encrypted:     hdr.Encrypted,
		StatePresent:  hdr.StatePresent,
		DecisionCount: hdr.DecisionCount,
		Checksum:      hex.EncodeToString(sum),
		Size:          counted.n + bundleChecksum,
	}, nil
}

// ReadBundle parses and verifies a bundle stream. The checksum is
// verified before anything inside the stream is trusted.
func ReadBundle(r io.Reader, cipher adaptive.Cipher) (*Bundle, *BundleInfo, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBundlePayload))
	if err != nil {
		return nil, nil, domain.ErrBundleRead.WithCause(err)
	}
	if len(raw) < len(bundleMagic)+bundleChecksum {
		return nil, nil, domain.ErrBundleCorrupt.WithDetails("truncated stream")
	}

	body := raw[:len(raw)-bundleChecksum]
	expected := raw[len(raw)-bundleChecksum:]
	sum := sha256.Sum256(body)
	if !bytes.Equal(sum[:], expected) {
		return nil, nil, domain.ErrBundleCorrupt.WithDetails("checksum mismatch")
	}

	br := bytes.NewReader(body)

	magic := make([]byte, len(bundleMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, nil, domain.ErrBundleCorrupt.WithCause(err)
	}
	if !bytes.Equal(magic, bundleMagic) {
		return nil, nil, domain.ErrBundleCorrupt.WithDetails("bad magic")
	}

	hdrJSON, err := readBlock(br)
	if err != nil {
		return nil, nil, err
	}
	var hdr bundleHeader
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, domain.ErrBundleCorrupt.WithCause(err)
	}
	if hdr.Version != bundleVersion {
		return nil, nil, domain.ErrBundleCorrupt.WithDetails("unsupported bundle version")
	}

	payload, err := readBlock(br)
	if err != nil {
		return nil, nil, err
	}
	if hdr.Encrypted {
		if cipher == nil {
			return nil, nil, domain.ErrBundleRead.WithDetails("bundle is encrypted and no key was provided")
		}
		payload, err = cipher.Decrypt(payload, bundleAAD)
		if err != nil {
			return nil, nil, domain.ErrBundleCorrupt.WithCause(err)
		}
	}

	var b Bundle
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, nil, domain.ErrBundleCorrupt.WithCause(err)
	}

	info := &BundleInfo{
		ID:            hdr.ID,
		Version:       hdr.Version,
		CreatedAt:     hdr.CreatedAt,
		Encrypted:     hdr.Encrypted,
		StatePresent:  hdr.StatePresent,
		DecisionCount: hdr.DecisionCount,
		Checksum:      hex.EncodeToString(expected),
		Size:          int64(len(raw)),
	}
	return &b, info, nil
}

// writeBlock writes a 4-byte big-endian length followed by the data.
func writeBlock(w io.Writer, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return domain.ErrBundleWrite.WithCause(err)
	}
	if _, err := w.Write(data); err != nil {
		return domain.ErrBundleWrite.WithCause(err)
	}
	return nil
}

// readBlock reads a 4-byte big-endian length followed by the data.
func readBlock(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, domain.ErrBundleCorrupt.WithCause(err)
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if size == 0 || size > maxBundlePayload {
		return nil, domain.ErrBundleCorrupt.WithDetails("implausible block size")
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, domain.ErrBundleCorrupt.WithCause(err)
	}
	return data, nil
}

func generateBundleID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", domain.ErrInternalServer.WithCause(err)
	}
	return BundleIDPrefix + strings.ToLower(id.String()), nil
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
