// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package api

import (
	"net/http"

	"github.com/axonweb3/axon-bridge/access"
	"github.com/axonweb3/axon-bridge/bridge"
	"github.com/axonweb3/axon-bridge/events"
	"github.com/axonweb3/axon-bridge/metadata"
)

// Name the service is registered under.
const Name = "bridge"

// Service exposes bridge and metadata registry operations over JSON-RPC.
type Service struct {
	bridge   *bridge.Bridge
	registry *metadata.Registry
	logs     *events.Recorder
}

func NewService(b *bridge.Bridge, registry *metadata.Registry, logs *events.Recorder) *Service {
	return &Service{
		bridge:   b,
		registry: registry,
		logs:     logs,
	}
}

func (s *Service) AppendMetadata(_ *http.Request, args *AppendMetadataArgs, _ *EmptyReply) error {
	return s.registry.AppendMetadata(args.call(), args.Metadata)
}

func (s *Service) GetMetadata(_ *http.Request, args *EpochArgs, reply *metadata.Metadata) error {
	m, err := s.registry.GetMetadata(args.Epoch)
	if err != nil {
		return err
	}
	*reply = m
	return nil
}

func (s *Service) GetMetadataByBlockNumber(_ *http.Request, args *BlockArgs, reply *metadata.Metadata) error {
	m, err := s.registry.GetMetadataByBlockNumber(args.BlockNumber)
	if err != nil {
		return err
	}
	*reply = m
	return nil
}

func (s *Service) LatestEpoch(_ *http.Request, _ *EmptyArgs, reply *EpochReply) error {
	reply.Epoch, reply.Found = s.registry.LatestEpoch()
	return nil
}

func (s *Service) IsProposer(_ *http.Request, args *AccountArgs, reply *BoolReply) error {
	reply.Result = s.registry.IsProposer(args.Address, args.BlockNumber)
	return nil
}

func (s *Service) IsVerifier(_ *http.Request, args *AccountArgs, reply *BoolReply) error {
	reply.Result = s.registry.IsVerifier(args.Address, args.BlockNumber)
	return nil
}

func (s *Service) LockAT(_ *http.Request, args *LockATArgs, _ *EmptyReply) error {
	return s.bridge.LockAT(args.call(), args.To)
}

func (s *Service) CrossTokenToCKB(_ *http.Request, args *CrossTokenToCKBArgs, _ *EmptyReply) error {
	return s.bridge.CrossTokenToCKB(args.call(), args.To, args.Token, args.Amount)
}

func (s *Service) CrossFromCKB(_ *http.Request, args *CrossFromCKBArgs, _ *EmptyReply) error {
	signatures := make([][]byte, len(args.Signatures))
	for i, sig := range args.Signatures {
		signatures[i] = sig
	}
	return s.bridge.CrossFromCKB(args.call(), args.Records, signatures, args.Nonce)
}

// BatchHash returns the digest verifiers sign for an inbound batch.
func (s *Service) BatchHash(_ *http.Request, args *BatchArgs, reply *HashReply) error {
	hash, err := s.bridge.Domain().BatchHash(args.Records, args.Nonce)
	if err != nil {
		return err
	}
	reply.Hash = hash
	return nil
}

func (s *Service) LimitTxes(_ *http.Request, _ *EmptyArgs, reply *LimitTxesReply) error {
	reply.LimitTxes = s.bridge.LimitTxes()
	return nil
}

func (s *Service) RemoveLimitTx(_ *http.Request, args *RemoveLimitTxArgs, _ *EmptyReply) error {
	return s.bridge.RemoveLimitTx(args.call(), args.LimitTx)
}

func (s *Service) RemoveLimitTxByID(_ *http.Request, args *RemoveLimitTxByIDArgs, _ *EmptyReply) error {
	return s.bridge.RemoveLimitTxByID(args.call(), args.ID)
}

func (s *Service) SetTokenConfig(_ *http.Request, args *SetTokenConfigArgs, _ *EmptyReply) error {
	return s.bridge.SetTokenConfig(args.call(), args.Token, args.Config)
}

func (s *Service) GetTokenInfo(_ *http.Request, args *TokenArgs, reply *TokenInfoReply) error {
	reply.Config = s.bridge.GetTokenConfig(args.Token)
	reply.Typehash = s.bridge.GetTypehash(args.Token)
	reply.Mirror = s.bridge.IsMirrorToken(args.Token)
	reply.Whitelist = s.bridge.IsWhitelist(args.Token)
	return nil
}

func (s *Service) GetTokenAddress(_ *http.Request, args *TokenByTypehashArgs, reply *AddressReply) error {
	reply.Address = s.bridge.GetTokenAddress(args.Typehash)
	return nil
}

func (s *Service) AddMirrorToken(_ *http.Request, args *TypehashArgs, _ *EmptyReply) error {
	return s.bridge.AddMirrorToken(args.call(), args.Token, args.Typehash)
}

func (s *Service) AddToken(_ *http.Request, args *TypehashArgs, _ *EmptyReply) error {
	return s.bridge.AddToken(args.call(), args.Token, args.Typehash)
}

func (s *Service) AddWhitelist(_ *http.Request, args *TokenCallArgs, _ *EmptyReply) error {
	return s.bridge.AddWhitelist(args.call(), args.Token)
}

func (s *Service) RemoveWhitelist(_ *http.Request, args *TokenCallArgs, _ *EmptyReply) error {
	return s.bridge.RemoveWhitelist(args.call(), args.Token)
}

func (s *Service) SetWCKB(_ *http.Request, args *TokenCallArgs, _ *EmptyReply) error {
	return s.bridge.SetWCKB(args.call(), args.Token)
}

func (s *Service) SetWCKBMin(_ *http.Request, args *AmountArgs, _ *EmptyReply) error {
	return s.bridge.SetWCKBMin(args.call(), args.Amount)
}

func (s *Service) GetBridgeInfo(_ *http.Request, _ *EmptyArgs, reply *BridgeInfoReply) error {
	reply.Address = s.bridge.Address()
	reply.WCKB = s.bridge.GetWCKBAddress()
	reply.WCKBMin = s.bridge.GetWCKBMin()
	reply.Nonce = s.bridge.CrossFromCKBNonce()
	reply.MirrorTokens = s.bridge.MirrorTokens()
	reply.Whitelist = s.bridge.Whitelist()
	return nil
}

func (s *Service) GrantRole(_ *http.Request, args *RoleArgs, _ *EmptyReply) error {
	return s.bridge.GrantRole(args.call(), access.Role(args.Role), args.Account)
}

func (s *Service) RevokeRole(_ *http.Request, args *RoleArgs, _ *EmptyReply) error {
	return s.bridge.RevokeRole(args.call(), access.Role(args.Role), args.Account)
}

func (s *Service) HasRole(_ *http.Request, args *RoleArgs, reply *BoolReply) error {
	reply.Result = s.bridge.HasRole(access.Role(args.Role), args.Account)
	return nil
}

func (s *Service) Approve(_ *http.Request, args *ApproveArgs, _ *EmptyReply) error {
	return s.bridge.Approve(args.call(), args.Token, args.Spender, args.Amount)
}

func (s *Service) BalanceOf(_ *http.Request, args *BalanceArgs, reply *AmountReply) error {
	amount, err := s.bridge.BalanceOf(args.Token, args.Account)
	if err != nil {
		return err
	}
	reply.Amount = amount
	return nil
}

func (s *Service) GetLogs(_ *http.Request, args *events.Filter, reply *LogsReply) error {
	reply.Logs = s.logs.Logs(*args)
	return nil
}
