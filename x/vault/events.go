package vault

import (
	"encoding/binary"
	"strconv"

	"github.com/tendermint/tendermint/libs/common"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
)

// EventKind tells which operation emitted an event.
type EventKind uint32

const (
	EventDeposit EventKind = iota + 1
	EventWithdrawal
	EventFeeUpdated
	EventLockDurationUpdated
	EventOwnershipTransferred
	EventEmergencyWithdrawal
)

var eventNames = map[EventKind]string{
	EventDeposit:              "Deposit",
	EventWithdrawal:           "Withdrawal",
	EventFeeUpdated:           "FeeUpdated",
	EventLockDurationUpdated:  "LockDurationUpdated",
	EventOwnershipTransferred: "OwnershipTransferred",
	EventEmergencyWithdrawal:  "EmergencyWithdrawal",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "Unknown(" + strconv.FormatUint(uint64(k), 10) + ")"
}

// Event is an immutable audit log record. Only the fields relevant to the
// kind are set:
//
//   Deposit              Subject (user), Amount (net), Fee, Time
//   Withdrawal           Subject (user), Amount, Time
//   FeeUpdated           Subject (admin), Old, New (percent)
//   LockDurationUpdated  Subject (admin), Old, New (seconds)
//   OwnershipTransferred Subject (old admin), Counterparty (new admin)
//   EmergencyWithdrawal  Subject (admin), Amount, Time
type Event struct {
	Schema       uint32          `json:"schema"`
	Sequence     uint64          `json:"sequence"`
	Kind         EventKind       `json:"kind"`
	Subject      valora.Address  `json:"subject"`
	Counterparty valora.Address  `json:"counterparty,omitempty"`
	Amount       int64           `json:"amount,omitempty"`
	Fee          int64           `json:"fee,omitempty"`
	Old          int64           `json:"old,omitempty"`
	New          int64           `json:"new,omitempty"`
	Time         valora.UnixTime `json:"time"`
}

// Tags returns the indexable attributes of the event.
func (e Event) Tags() common.KVPairs {
	tags := common.KVPairs{
		{Key: []byte("event"), Value: []byte(e.Kind.String())},
		{Key: []byte("subject"), Value: []byte(e.Subject.String())},
	}
	if len(e.Counterparty) != 0 {
		tags = append(tags, common.KVPair{Key: []byte("counterparty"), Value: []byte(e.Counterparty.String())})
	}
	switch e.Kind {
	case EventDeposit:
		tags = append(tags,
			common.KVPair{Key: []byte("amount"), Value: []byte(strconv.FormatInt(e.Amount, 10))},
			common.KVPair{Key: []byte("fee"), Value: []byte(strconv.FormatInt(e.Fee, 10))})
	case EventWithdrawal, EventEmergencyWithdrawal:
		tags = append(tags, common.KVPair{Key: []byte("amount"), Value: []byte(strconv.FormatInt(e.Amount, 10))})
	case EventFeeUpdated, EventLockDurationUpdated:
		tags = append(tags,
			common.KVPair{Key: []byte("old"), Value: []byte(strconv.FormatInt(e.Old, 10))},
			common.KVPair{Key: []byte("new"), Value: []byte(strconv.FormatInt(e.New, 10))})
	}
	return tags
}

var (
	eventPrefix      = []byte("vault:evt:")
	eventIndexPrefix = []byte("vault:evtidx:")
	eventSeqKey      = []byte("vault:evtseq")
)

func seqBytes(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func eventKey(seq uint64) []byte {
	return append(append([]byte{}, eventPrefix...), seqBytes(seq)...)
}

func eventIndexKey(addr valora.Address, seq uint64) []byte {
	key := append(append([]byte{}, eventIndexPrefix...), addr...)
	return append(key, seqBytes(seq)...)
}

// emit appends the event to the log and indexes it under every address it
// mentions.
func emit(db valora.KVStore, e Event) (Event, error) {
	raw, err := db.Get(eventSeqKey)
	if err != nil {
		return e, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var seq uint64 = 1
	if raw != nil {
		seq = binary.BigEndian.Uint64(raw) + 1
	}
	if err := db.Set(eventSeqKey, seqBytes(seq)); err != nil {
		return e, err
	}

	e.Schema = modelSchema
	e.Sequence = seq
	bz, err := cdc.MarshalBinaryBare(e)
	if err != nil {
		return e, errors.Wrap(errors.ErrModel, err.Error())
	}
	if err := db.Set(eventKey(seq), bz); err != nil {
		return e, err
	}
	for _, addr := range []valora.Address{e.Subject, e.Counterparty} {
		if len(addr) == 0 {
			continue
		}
		if err := db.Set(eventIndexKey(addr, seq), seqBytes(seq)); err != nil {
			return e, err
		}
	}
	return e, nil
}

func loadEvent(db valora.ReadOnlyKVStore, seq uint64) (Event, error) {
	var e Event
	raw, err := db.Get(eventKey(seq))
	if err != nil {
		return e, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return e, errors.ErrNotFound.Newf("event %d", seq)
	}
	if err := cdc.UnmarshalBinaryBare(raw, &e); err != nil {
		return e, errors.Wrap(errors.ErrModel, err.Error())
	}
	return e, nil
}

// Events returns the whole audit log, oldest first.
func Events(db valora.ReadOnlyKVStore) ([]Event, error) {
	iter, err := db.Iterator(eventPrefix, prefixEnd(eventPrefix))
	if err != nil {
		return nil, err
	}
	defer iter.Release()

	var events []Event
	for {
		_, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		var e Event
		if err := cdc.UnmarshalBinaryBare(value, &e); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		events = append(events, e)
	}
}

// EventsBySubject returns all events mentioning given address, oldest first.
func EventsBySubject(db valora.ReadOnlyKVStore, addr valora.Address) ([]Event, error) {
	prefix := append(append([]byte{}, eventIndexPrefix...), addr...)
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}

	var seqs []uint64
	for {
		_, value, err := iter.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		if err != nil {
			iter.Release()
			return nil, err
		}
		seqs = append(seqs, binary.BigEndian.Uint64(value))
	}
	iter.Release()

	events := make([]Event, 0, len(seqs))
	for _, seq := range seqs {
		e, err := loadEvent(db, seq)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
