package signal

import "fmt"

// TransactionType enumerates the requests the controller exchanges
// with its caller.
type TransactionType int

// All transaction kinds. ReturnData marks read data that is ready to
// be handed back to the caller.
const (
	DataRead TransactionType = iota
	DataWrite
	ReturnData
)

func (t TransactionType) String() string {
	switch t {
	case DataRead:
		return "DATA_READ"
	case DataWrite:
		return "DATA_WRITE"
	case ReturnData:
		return "RETURN_DATA"
	default:
		return fmt.Sprintf("TransactionType(%d)", int(t))
	}
}

// A Transaction is one in-flight request. Only the owning controller
// mutates it; it is destroyed after the matching return is delivered.
type Transaction struct {
	Type    TransactionType
	Address uint64
	Data    []byte

	// TimeAdded is the cycle the transaction entered the controller.
	TimeAdded uint64

	// TimeACTIssued is the cycle the bank was first activated for this
	// transaction, or, on a row buffer hit, the cycle of the first
	// column access. Zero means not stamped yet.
	TimeACTIssued uint64
}

// NewTransaction creates a read or write request for the given
// physical address.
func NewTransaction(
	t TransactionType,
	address uint64,
	data []byte,
) *Transaction {
	return &Transaction{
		Type:    t,
		Address: address,
		Data:    data,
	}
}

// BusPacketType returns the column command kind the transaction
// decomposes into under the given auto-precharge setting.
func (t *Transaction) BusPacketType(autoPrecharge bool) BusPacketType {
	if t.Type == DataWrite {
		if autoPrecharge {
			return WriteP
		}

		return Write
	}

	if autoPrecharge {
		return ReadP
	}

	return Read
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s addr=0x%x added=%d", t.Type, t.Address, t.TimeAdded)
}
