// Package org models the organization of a memory channel: per-bank
// state and the rank devices that execute bus commands.
package org

import (
	"fmt"

	"github.com/sarchlab/mramsim/dram/internal/signal"
)

// BankStateKind enumerates the states of the per-bank state machine.
type BankStateKind int

// All bank states.
const (
	Idle BankStateKind = iota
	RowActive
	Precharging
	Refreshing
	PowerDown
)

func (k BankStateKind) String() string {
	switch k {
	case Idle:
		return "Idle"
	case RowActive:
		return "RowActive"
	case Precharging:
		return "Precharging"
	case Refreshing:
		return "Refreshing"
	case PowerDown:
		return "PowerDown"
	default:
		return fmt.Sprintf("BankStateKind(%d)", int(k))
	}
}

// BankState is the controller-side view of one bank: the state machine
// position plus the earliest cycle each command kind may issue.
type BankState struct {
	State          BankStateKind
	LastCommand    signal.BusPacketType
	OpenRowAddress int

	// StateChangeCountdown counts the cycles until an implicit
	// transition fires. Which transition is decided by LastCommand.
	StateChangeCountdown int

	NextRead      uint64
	NextWrite     uint64
	NextActivate  uint64
	NextPrecharge uint64
	NextPowerUp   uint64
}

// MakeBankStates allocates the state matrix for one channel, all banks
// idle and all guards satisfied at cycle zero.
func MakeBankStates(numRanks, numBanks int) [][]BankState {
	states := make([][]BankState, numRanks)
	for r := range states {
		states[r] = make([]BankState, numBanks)
	}

	return states
}
