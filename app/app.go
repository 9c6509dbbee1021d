package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/mohankour/ValoraVault"
	"github.com/mohankour/ValoraVault/errors"
	"github.com/mohankour/ValoraVault/x/cash"
	"github.com/mohankour/ValoraVault/x/vault"
)

// VaultAddress is the address holding the deposited value.
var VaultAddress = valora.NewAddress([]byte("valora/vault"))

// App runs ledger invocations one at a time, committing each successful one
// as a new store version.
type App struct {
	logger  log.Logger
	store   *CommitStore
	bank    *cash.BaseController
	chainID string
}

// Result describes a committed invocation.
type Result struct {
	// ID identifies the invocation in the logs.
	ID      string        `json:"id"`
	Version int64         `json:"version"`
	Hash    []byte        `json:"hash"`
	Events  []vault.Event `json:"events"`
}

// New loads the latest committed state.
func New(kv valora.CommitKVStore, logger log.Logger) (*App, error) {
	store, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(store.DeliverStore())
	if err != nil {
		return nil, err
	}
	return &App{
		logger:  logger,
		store:   store,
		bank:    cash.NewController(),
		chainID: chainID,
	}, nil
}

// ChainID returns the chain id set by the genesis, empty before InitChain.
func (a *App) ChainID() string {
	return a.chainID
}

// InitChain loads the wallets and the ledger configuration from the genesis
// and commits them as the first version.
func (a *App) InitChain(gen Genesis) (valora.CommitID, error) {
	db := a.store.DeliverStore()
	init := valora.ChainInitializers(cash.Initializer{}, vault.Initializer{})
	if err := saveChainID(db, gen.ChainID); err != nil {
		a.store.Reset()
		return valora.CommitID{}, err
	}
	if err := init.FromGenesis(gen.AppState, db); err != nil {
		a.store.Reset()
		return valora.CommitID{}, errors.Wrap(err, "genesis")
	}
	id, err := a.store.Commit()
	if err != nil {
		return id, err
	}
	a.chainID = gen.ChainID
	a.logger.Info("chain initialized", "chain_id", gen.ChainID, "version", id.Version)
	return id, nil
}

// Exec runs a single invocation made by caller at the given time. The state
// is committed only if fn succeeds. The time must not be earlier than the
// time of the last committed invocation.
func (a *App) Exec(caller valora.Address, now time.Time, fn func(valora.Context, *vault.Ledger) error) (Result, error) {
	if a.chainID == "" {
		return Result{}, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	id := uuid.New().String()
	// Time never goes backwards across committed invocations.
	if err := saveLastTime(a.store.DeliverStore(), valora.AsUnixTime(now)); err != nil {
		a.store.Reset()
		return Result{ID: id}, err
	}
	ctx := a.context(id, now)
	ctx = valora.WithCaller(ctx, caller)

	ledger := a.ledger()
	before, err := ledger.Events()
	if err != nil {
		return Result{}, err
	}
	if err := fn(ctx, ledger); err != nil {
		a.store.Reset()
		return Result{ID: id}, err
	}
	after, err := ledger.Events()
	if err != nil {
		a.store.Reset()
		return Result{ID: id}, err
	}

	commit, err := a.store.Commit()
	if err != nil {
		return Result{ID: id}, errors.Wrap(err, "commit")
	}
	return Result{
		ID:      id,
		Version: commit.Version,
		Hash:    commit.Hash,
		Events:  after[len(before):],
	}, nil
}

// Query runs a read only function against the committed state.
func (a *App) Query(now time.Time, fn func(valora.Context, *vault.Ledger) error) error {
	ctx := a.context(uuid.New().String(), now)
	defer a.store.Reset()
	return fn(ctx, a.ledger())
}

// Bank returns the wallets controller.
func (a *App) Bank() cash.Controller {
	return a.bank
}

// Store returns the state invocations run on.
func (a *App) Store() valora.ReadOnlyKVStore {
	return a.store.DeliverStore()
}

// CommitInfo returns the latest committed version.
func (a *App) CommitInfo() (valora.CommitID, error) {
	return a.store.CommitInfo()
}

func (a *App) context(id string, now time.Time) valora.Context {
	ctx := valora.WithLogger(context.Background(), a.logger)
	ctx = valora.WithLogInfo(ctx, "invocation", id)
	return valora.WithBlockTime(ctx, now)
}

// ledger binds a ledger to the current deliver cache, which changes with
// every commit.
func (a *App) ledger() *vault.Ledger {
	return vault.NewLedger(a.store.DeliverStore(), a.bank, VaultAddress)
}
