// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"encoding/json"
	"fmt"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/axonweb3/axon-bridge/config/node"
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/metadata"
	"github.com/axonweb3/axon-bridge/state"
	"github.com/axonweb3/axon-bridge/store"
	"github.com/axonweb3/axon-bridge/token"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

const logRetention = 10000

// Node bundles the state machines a bridge node serves.
type Node struct {
	Journal  *state.Journal
	Tokens   *token.Registry
	Registry *metadata.Registry
	Bridge   *bridge.Bridge
	Recorder *events.Recorder
}

// NewNode builds the node state from genesis configuration and then
// overlays whatever was persisted by a previous run.
func NewNode(
	cfg node.NodeConfig,
	tokenConfigs []*token.Config,
	genesisCheckpoints []metadata.Metadata,
	stateStore *store.StateStore,
	metrics bridge.Metrics,
) (*Node, error) {
	registry, err := restoreRegistry(genesisCheckpoints, stateStore)
	if err != nil {
		return nil, err
	}

	journal := state.NewJournal()
	nativeSymbol := "AT"
	for _, c := range tokenConfigs {
		if c.Kind == token.NativeKind {
			nativeSymbol = c.Symbol
		}
	}
	tokens := token.NewRegistry(token.NewNative(nativeSymbol, journal))

	recorder := events.NewRecorder(logRetention)
	b := bridge.NewBridge(
		cfg.BridgeConfig,
		journal,
		tokens,
		registry,
		events.Multi(recorder, events.LogEmitter{}),
		metrics,
	)

	err = deployTokens(b, cfg.BridgeConfig.Admin, journal, tokens, tokenConfigs)
	if err != nil {
		return nil, err
	}

	snapshot, ok, err := stateStore.BridgeSnapshot()
	if err != nil {
		return nil, err
	}
	if ok {
		if err := b.Restore(snapshot); err != nil {
			return nil, fmt.Errorf("unable to restore bridge state: %w", err)
		}
	} else {
		if err := configureTokens(b, cfg.BridgeConfig.Admin, tokenConfigs); err != nil {
			return nil, err
		}
		if err := stateStore.StoreBridgeSnapshot(b.Snapshot()); err != nil {
			return nil, err
		}
		log.Info().Int("tokens", len(tokenConfigs)).Msg("Initialized bridge state from genesis")
	}
	b.SetStorer(stateStore)

	return &Node{
		Journal:  journal,
		Tokens:   tokens,
		Registry: registry,
		Bridge:   b,
		Recorder: recorder,
	}, nil
}

func restoreRegistry(genesis []metadata.Metadata, stateStore *store.StateStore) (*metadata.Registry, error) {
	checkpoints, err := stateStore.Checkpoints()
	if err != nil {
		return nil, err
	}
	if len(checkpoints) == 0 {
		for _, m := range genesis {
			if err := stateStore.StoreCheckpoint(m); err != nil {
				return nil, err
			}
		}
		checkpoints = genesis
		log.Info().Int("checkpoints", len(genesis)).Msg("Initialized metadata registry from genesis")
	}

	registry, err := metadata.Restore(checkpoints)
	if err != nil {
		return nil, err
	}
	registry.SetStorer(stateStore)
	return registry, nil
}

// deployTokens creates the configured tokens and credits genesis
// balances. Persisted ledgers replace those balances on restart.
func deployTokens(b *bridge.Bridge, admin common.Address, journal *state.Journal, tokens *token.Registry, configs []*token.Config) error {
	for _, c := range configs {
		switch c.Kind {
		case token.NativeKind:
			for holder, amount := range c.Balances {
				if err := tokens.Native().Credit(holder, amount); err != nil {
					return err
				}
			}
		case token.WCKBKind, token.MirrorKind:
			mirror := token.NewMirrorToken(c.Address, admin, c.Name, c.Symbol, c.Decimals, journal)
			if err := mirror.Roles().GrantRole(admin, access.ManagerRole, b.Address()); err != nil {
				return err
			}
			if err := tokens.Register(mirror); err != nil {
				return err
			}
			for holder, amount := range c.Balances {
				if err := mirror.Mint(b.Address(), holder, amount); err != nil {
					return err
				}
			}
		case token.ERC20Kind:
			erc20 := token.NewERC20(c.Address, admin, c.Name, c.Symbol, c.Decimals, journal)
			if err := tokens.Register(erc20); err != nil {
				return err
			}
			for holder, amount := range c.Balances {
				if err := erc20.Mint(admin, holder, amount); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("token kind '%s' not recognized", c.Kind)
		}
		log.Info().Str("symbol", c.Symbol).Str("address", c.Address.Hex()).Str("kind", string(c.Kind)).Msg("Deployed token")
	}
	journal.Commit()
	return nil
}

// configureTokens registers genesis tokens with the bridge on first boot.
// A restarted node takes the token configuration from its snapshot.
func configureTokens(b *bridge.Bridge, admin common.Address, configs []*token.Config) error {
	call := state.Call{From: admin}
	for _, c := range configs {
		var err error
		switch {
		case c.Kind == token.WCKBKind:
			err = b.SetWCKB(call, c.Address)
		case c.Kind == token.MirrorKind:
			err = b.AddMirrorToken(call, c.Address, c.TypeHash)
		case c.Kind == token.ERC20Kind && c.TypeHash != (common.Hash{}):
			err = b.AddToken(call, c.Address, c.TypeHash)
		}
		if err != nil {
			return err
		}
		if c.Kind == token.ERC20Kind && c.Whitelist {
			if err := b.AddWhitelist(call, c.Address); err != nil {
				return err
			}
		}

		err = b.SetTokenConfig(call, c.Address, bridge.TokenConfig{Fee: c.Fee, Threshold: c.Threshold})
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeCheckpoints converts raw checkpoint objects from configuration into
// metadata checkpoints.
func decodeCheckpoints(raw []map[string]interface{}) ([]metadata.Metadata, error) {
	checkpoints := make([]metadata.Metadata, len(raw))
	for i, r := range raw {
		encoded, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(encoded, &checkpoints[i]); err != nil {
			return nil, fmt.Errorf("invalid checkpoint %d: %w", i, err)
		}
	}
	return checkpoints, nil
}
