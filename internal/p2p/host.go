// Package p2p publishes the catalog over libp2p, reachable through a circuit
// relay when the server sits behind NAT.
package p2p

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/protocol/circuitv2/client"
	libp2pquic "github.com/libp2p/go-libp2p/p2p/transport/quic"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"
	ma "github.com/multiformats/go-multiaddr"
)

var ErrNotStarted = errors.New("p2p host not started")

type Host struct {
	host      host.Host
	relayInfo *peer.AddrInfo
	logger    *slog.Logger
}

// NewHost parses relayAddr, a full multiaddr ending in /p2p/<relay peer id>.
// Nothing is dialed until Start.
func NewHost(relayAddr string, logger *slog.Logger) (*Host, error) {
	relayMA, err := ma.NewMultiaddr(relayAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid relay addr: %w", err)
	}

	relayInfo, err := peer.AddrInfoFromP2pAddr(relayMA)
	if err != nil {
		return nil, fmt.Errorf("parse relay info: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Host{relayInfo: relayInfo, logger: logger.With("component", "p2p")}, nil
}

func (p *Host) Start(ctx context.Context) error {
	h, err := libp2p.New(
		libp2p.ListenAddrStrings("/ip4/0.0.0.0/tcp/0", "/ip4/0.0.0.0/udp/0/quic-v1"),
		libp2p.Transport(tcp.NewTCPTransport),
		libp2p.Transport(libp2pquic.NewTransport),
		libp2p.EnableRelay(),
		libp2p.EnableHolePunching(),
	)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	p.host = h

	if err := p.connectRelay(ctx); err != nil {
		_ = h.Close()
		p.host = nil
		return err
	}

	return nil
}

func (p *Host) connectRelay(ctx context.Context) error {
	if err := p.host.Connect(ctx, *p.relayInfo); err != nil {
		return fmt.Errorf("connect relay: %w", err)
	}

	if _, err := client.Reserve(ctx, p.host, *p.relayInfo); err != nil {
		return fmt.Errorf("reserve relay: %w", err)
	}

	relayed, err := p.RelayedAddr()
	if err != nil {
		return err
	}

	p.logger.Info("p2p host started",
		"peer_id", p.host.ID().String(),
		"relay", p.relayInfo.ID.String(),
		"relayed_addr", relayed.String(),
	)

	return nil
}

// RelayedAddr is the circuit address peers dial to reach this host.
func (p *Host) RelayedAddr() (ma.Multiaddr, error) {
	if p.host == nil {
		return nil, ErrNotStarted
	}
	return ma.NewMultiaddr(fmt.Sprintf("/p2p/%s/p2p-circuit/p2p/%s", p.relayInfo.ID, p.host.ID()))
}

func (p *Host) RelayID() peer.ID {
	return p.relayInfo.ID
}

func (p *Host) Host() host.Host {
	return p.host
}

func (p *Host) Stop() error {
	if p.host == nil {
		return nil
	}
	err := p.host.Close()
	p.host = nil
	return err
}
