// Package manager implements the Manager: it owns the state database
// and the blackhole account, and routes inbound contracts to the
// actuator registered for their type (SPEC_FULL.md §4.6).
package manager

import (
	"errors"
	"fmt"

	"github.com/opentron-go/opentron/internal/actuator"
	"github.com/opentron-go/opentron/internal/actuator/account"
	"github.com/opentron-go/opentron/internal/addr"
	"github.com/opentron-go/opentron/internal/model"
	"github.com/opentron-go/opentron/internal/statedb"
	"go.uber.org/zap"
)

// ErrUnsupportedContract wraps the diagnostic returned for a contract
// variant with no registered actuator.
var ErrUnsupportedContract = errors.New("unsupported contract")

// Factory builds the actuator responsible for one decoded contract. A
// factory rather than a pre-built Actuator instance because each
// actuator closes over the specific contract payload it was asked to
// process (SPEC_FULL.md §4.3's "tagged union with a dispatch function"
// alternative, realized as a registry keyed by variant tag).
type Factory func(model.Contract) actuator.Actuator

// Manager dispatches contracts to actuators and owns the state database
// and blackhole account exclusively, per SPEC_FULL.md §3's ownership rule.
type Manager struct {
	store     *statedb.Store
	blackhole addr.Address
	factories map[model.ContractType]Factory
	logger    *zap.SugaredLogger
	metrics   *metrics
}

// New constructs a Manager backed by store, crediting fees to blackhole.
// The two account actuators are registered by default; callers add more
// via RegisterActuator as the full node grows beyond this core's scope.
func New(store *statedb.Store, blackhole addr.Address, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	m := &Manager{
		store:     store,
		blackhole: blackhole,
		factories: make(map[model.ContractType]Factory),
		logger:    logger.Named("manager"),
		metrics:   newMetrics(),
	}
	m.registerDefaults()
	return m
}

func (m *Manager) registerDefaults() {
	m.RegisterActuator(model.AccountUpdateContractType, func(c model.Contract) actuator.Actuator {
		return &account.UpdateActuator{Contract: c.(*model.AccountUpdateContract)}
	})
	m.RegisterActuator(model.AccountPermissionUpdateContractType, func(c model.Contract) actuator.Actuator {
		return &account.PermissionUpdateActuator{Contract: c.(*model.AccountPermissionUpdateContract)}
	})
}

// RegisterActuator installs the factory responsible for contractType,
// replacing any previous registration.
func (m *Manager) RegisterActuator(contractType model.ContractType, factory Factory) {
	m.factories[contractType] = factory
}

// StateDB exposes the facade for components (the CLI, tests) that need
// direct read access outside of contract processing.
func (m *Manager) StateDB() *statedb.Store {
	return m.store
}

// Blackhole returns the distinguished fee-sink address.
func (m *Manager) Blackhole() addr.Address {
	return m.blackhole
}

// ProcessContract routes contract to its actuator, running validate then
// execute inside one state-database transaction (SPEC_FULL.md §4.3). A
// validate failure rolls the transaction back before execute ever runs;
// an execute failure rolls back whatever execute had already written.
func (m *Manager) ProcessContract(contract model.Contract) (*actuator.TransactionContext, error) {
	ctx := actuator.NewTransactionContext()
	contractType := contract.Type()

	factory, ok := m.factories[contractType]
	if !ok {
		err := fmt.Errorf("%w: contract type %d", ErrUnsupportedContract, contractType)
		m.logger.Debugw("contract unsupported",
			"type", contractType, "requestID", ctx.ID)
		m.metrics.observe(contractType, outcomeUnsupported)
		return ctx, err
	}
	act := factory(contract)

	txErr := m.store.Update(func(tx *statedb.Tx) error {
		state := &txState{tx: tx, manager: m}

		if err := act.Validate(state, ctx); err != nil {
			ctx.Result = model.Failure(err.Error())
			ctx.Log("validate failed: " + err.Error())
			return err
		}

		result, err := act.Execute(state, ctx)
		if err != nil {
			ctx.Result = model.Failure(err.Error())
			ctx.Log("execute failed: " + err.Error())
			return err
		}
		ctx.Result = result
		ctx.Log("execute succeeded")
		return nil
	})

	if txErr != nil {
		m.logger.Debugw("contract rejected",
			"type", contractType, "requestID", ctx.ID, "error", txErr)
		m.metrics.observe(contractType, outcomeRejected)
		return ctx, txErr
	}

	m.logger.Debugw("contract processed",
		"type", contractType, "requestID", ctx.ID, "fee", ctx.ContractFee)
	m.metrics.observe(contractType, outcomeSuccess)
	m.metrics.observeFee(contractType, ctx.ContractFee)
	return ctx, nil
}

// AddToBlackhole credits amount to the blackhole account, failing only on
// storage error. It is exposed standalone (not only through
// ProcessContract) because SPEC_FULL.md §4.6 lists it as a first-class
// Manager operation.
func (m *Manager) AddToBlackhole(amount int64) error {
	err := m.store.Update(func(tx *statedb.Tx) error {
		return creditBlackhole(tx, m.blackhole, amount)
	})
	if err == nil {
		m.metrics.blackholeBalance.Add(float64(amount))
	}
	return err
}

func creditBlackhole(tx *statedb.Tx, blackhole addr.Address, amount int64) error {
	key := statedb.AccountKey{Addr: blackhole}
	acct, ok, err := statedb.Get(tx, key)
	if err != nil {
		return err
	}
	if !ok {
		acct = model.Account{}
	}
	acct.AdjustBalance(amount)
	return statedb.Put(tx, key, acct)
}

// txState is the concrete StateReader/StateWriter an actuator invocation
// sees, binding one statedb.Tx to the owning Manager for the duration of
// one ProcessContract call.
type txState struct {
	tx      *statedb.Tx
	manager *Manager
}

func (s *txState) Tx() *statedb.Tx { return s.tx }

func (s *txState) AddToBlackhole(amount int64) error {
	if amount == 0 {
		return nil
	}
	return creditBlackhole(s.tx, s.manager.blackhole, amount)
}
