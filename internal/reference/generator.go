package reference

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	hashids "github.com/speps/go-hashids/v2"
)

// Alphabet without 0/O/1/I so references survive being read over the phone.
const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generator mints short order references that get stamped into the payment
// intent metadata, so support staff can quote something friendlier than a
// vendor intent id.
type Generator struct {
	h   *hashids.HashID
	seq atomic.Int64
}

func NewGenerator(salt string) (*Generator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = 8
	data.Alphabet = alphabet

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("reference generator: %w", err)
	}
	return &Generator{h: h}, nil
}

func (g *Generator) Generate() string {
	code, err := g.h.EncodeInt64([]int64{time.Now().Unix(), g.seq.Add(1)})
	if err != nil {
		// EncodeInt64 only fails on negative input; fall back to a raw nonce.
		code = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	}
	return "TP-" + code
}
