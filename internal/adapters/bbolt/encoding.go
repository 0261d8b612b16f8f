// Run blob encoding.
//
// Format v1 is a one-byte version header followed by a JSON envelope that
// carries the run and its position in the save order:
//
//	version: byte (1)
//	body:    {"seq": <uint64>, "run": <ports.Run>}
//
// Order keys are the sequence as 8 big-endian bytes, so the bucket's byte
// order is the save order.
package bbolt

import (
	"encoding/binary"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/ports"
)

const formatV1 byte = 1

type envelope struct {
	Seq uint64     `json:"seq"`
	Run *ports.Run `json:"run"`
}

// storedRun is a decoded run blob.
type storedRun struct {
	seq uint64
	Run *ports.Run
}

func encodeRun(run *ports.Run, seq uint64) ([]byte, error) {
	body, err := json.Marshal(envelope{Seq: seq, Run: run})
	if err != nil {
		return nil, err
	}
	return append([]byte{formatV1}, body...), nil
}

func decodeRun(data []byte) (*storedRun, error) {
	if len(data) == 0 {
		return nil, errors.New("empty run blob")
	}
	if data[0] != formatV1 {
		return nil, errors.Newf("unsupported run format version %d", data[0])
	}
	var env envelope
	if err := json.Unmarshal(data[1:], &env); err != nil {
		return nil, err
	}
	if env.Run == nil {
		return nil, errors.New("run blob has no run")
	}
	return &storedRun{seq: env.Seq, Run: env.Run}, nil
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
