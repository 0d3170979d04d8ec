package contracts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Binary layout of the persisted meta entries. All integers are little
// endian; records carry a one byte state tag so decoding stays exhaustive
// over the record states.
const (
	recordTagAlive     uint8 = 1
	recordTagTombstone uint8 = 2
)

// --------------------------------------------------------------------------
// Record encoding
// --------------------------------------------------------------------------

func encodeRecord(record Record) []byte {
	buf := &bytes.Buffer{}

	switch r := record.(type) {
	case *AliveRecord:
		buf.WriteByte(recordTagAlive)
		buf.Write(r.CodeRef[:])
		buf.Write(r.NamespaceID[:])

		for _, v := range []uint64{
			r.StorageSize,
			r.TotalPairCount,
			r.EmptyPairCount,
			r.DeductTick,
			r.RentAllowance,
			r.LastWrite,
		} {
			_ = binary.Write(buf, binary.LittleEndian, v)
		}

		hasLastWrite := uint8(0)
		if r.HasLastWrite {
			hasLastWrite = 1
		}
		buf.WriteByte(hasLastWrite)

	case *Tombstone:
		buf.WriteByte(recordTagTombstone)
		buf.Write(r.Commitment[:])

	default:
		panic(fmt.Sprintf("encodeRecord: unknown record state %T", record))
	}

	return buf.Bytes()
}

func decodeRecord(data []byte) (Record, error) {
	buf := bytes.NewReader(data)

	tag, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("record decode: missing state tag: %w", err)
	}

	switch tag {
	case recordTagAlive:
		r := &AliveRecord{}
		if _, err := io.ReadFull(buf, r.CodeRef[:]); err != nil {
			return nil, fmt.Errorf("record decode: code ref: %w", err)
		}
		if _, err := io.ReadFull(buf, r.NamespaceID[:]); err != nil {
			return nil, fmt.Errorf("record decode: namespace id: %w", err)
		}

		for _, v := range []*uint64{
			&r.StorageSize,
			&r.TotalPairCount,
			&r.EmptyPairCount,
			&r.DeductTick,
			&r.RentAllowance,
			&r.LastWrite,
		} {
			if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
				return nil, fmt.Errorf("record decode: counters: %w", err)
			}
		}

		hasLastWrite, err := buf.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("record decode: last write flag: %w", err)
		}
		r.HasLastWrite = hasLastWrite != 0
		return r, nil

	case recordTagTombstone:
		r := &Tombstone{}
		if _, err := io.ReadFull(buf, r.Commitment[:]); err != nil {
			return nil, fmt.Errorf("record decode: commitment: %w", err)
		}
		return r, nil

	default:
		return nil, fmt.Errorf("record decode: unknown state tag %d", tag)
	}
}

// --------------------------------------------------------------------------
// Deletion queue encoding
// --------------------------------------------------------------------------

func encodeQueue(queue []deletedNamespace) []byte {
	buf := &bytes.Buffer{}

	_ = binary.Write(buf, binary.LittleEndian, uint32(len(queue)))
	for _, entry := range queue {
		buf.Write(entry.namespaceID[:])
		_ = binary.Write(buf, binary.LittleEndian, entry.remainingPairCount)
	}

	return buf.Bytes()
}

func decodeQueue(data []byte) ([]deletedNamespace, error) {
	buf := bytes.NewReader(data)

	var count uint32
	if err := binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("queue decode: length: %w", err)
	}

	queue := make([]deletedNamespace, 0, count)
	for i := uint32(0); i < count; i++ {
		var entry deletedNamespace
		if _, err := io.ReadFull(buf, entry.namespaceID[:]); err != nil {
			return nil, fmt.Errorf("queue decode: entry %d namespace: %w", i, err)
		}
		if err := binary.Read(buf, binary.LittleEndian, &entry.remainingPairCount); err != nil {
			return nil, fmt.Errorf("queue decode: entry %d pair count: %w", i, err)
		}
		queue = append(queue, entry)
	}

	return queue, nil
}

// --------------------------------------------------------------------------
// Namespace counter encoding
// --------------------------------------------------------------------------

func encodeCounter(counter uint64) []byte {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, counter)
	return data
}

func decodeCounter(data []byte) uint64 {
	if len(data) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(data)
}
