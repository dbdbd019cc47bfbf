// Package batch drives a consolidation run: one claim per donor wallet,
// strictly in order, with a per-wallet result that never aborts the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	klog "github.com/OpTi9/MENA/internal/log"
	"github.com/OpTi9/MENA/internal/registry"
	"github.com/OpTi9/MENA/internal/wallet"
	"github.com/OpTi9/MENA/pkg/types"
	"github.com/rs/zerolog"
)

// Pacing is the pause between two wallets.
const Pacing = 2 * time.Second

// ProgressSink receives a snapshot of all results recorded so far.
type ProgressSink func([]types.WalletResult)

// Opener derives signing identities from recovery phrases.
type Opener interface {
	Open(words []string) (*wallet.SigningIdentity, error)
}

// Submitter sends a signed claim to the registry.
type Submitter interface {
	Submit(ctx context.Context, claim types.Claim) (*registry.Receipt, error)
}

// Orchestrator processes wallet batches.
type Orchestrator struct {
	opener    Opener
	submitter Submitter
	sleep     registry.SleepFunc
	logger    zerolog.Logger
}

// New creates an Orchestrator.
func New(opener Opener, submitter Submitter) *Orchestrator {
	return &Orchestrator{
		opener:    opener,
		submitter: submitter,
		sleep:     registry.Sleep,
		logger:    klog.Batch,
	}
}

// SetSleep replaces the pacing sleep. Used by tests.
func (o *Orchestrator) SetSleep(fn registry.SleepFunc) {
	o.sleep = fn
}

// SetLogger replaces the orchestrator's logger.
func (o *Orchestrator) SetLogger(l zerolog.Logger) {
	o.logger = l
}

// Run consolidates every wallet into recipient and returns one result per
// wallet in input order. ctx is only checked between wallets; on
// cancellation the results recorded so far are returned with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, wallets []types.WalletInput, recipient string, sink ProgressSink) ([]types.WalletResult, error) {
	if recipient == "" {
		return nil, errors.New("recipient address is required")
	}
	if len(wallets) == 0 {
		return nil, errors.New("no wallets to process")
	}

	o.logger.Info().Int("wallets", len(wallets)).Str("recipient", recipient).Msg("Batch started")
	done := klog.Timer(o.logger, "batch")
	defer done()

	results := make([]types.WalletResult, 0, len(wallets))
	message := types.ClaimMessage(recipient)

	for i, w := range wallets {
		if err := ctx.Err(); err != nil {
			o.logger.Warn().Int("processed", len(results)).Msg("Batch cancelled")
			return results, err
		}

		res := o.process(context.WithoutCancel(ctx), w, recipient, message)
		results = append(results, res)

		o.logger.Info().
			Str("wallet", res.WalletNumber).
			Str("donor", res.DonorAddress).
			Str("status", string(res.Status)).
			Int("solutions", res.SolutionsConsolidated).
			Msg("Wallet processed")

		if sink != nil {
			snapshot := make([]types.WalletResult, len(results))
			copy(snapshot, results)
			sink(snapshot)
		}

		if i < len(wallets)-1 {
			if err := o.sleep(ctx, Pacing); err != nil {
				o.logger.Warn().Int("processed", len(results)).Msg("Batch cancelled")
				return results, err
			}
		}
	}

	o.logger.Info().Int("wallets", len(results)).Int("succeeded", Succeeded(results)).Msg("Batch finished")
	return results, nil
}

// process handles one wallet. It always yields a terminal result.
func (o *Orchestrator) process(ctx context.Context, w types.WalletInput, recipient, message string) types.WalletResult {
	res := types.WalletResult{
		WalletNumber: w.WalletNumber,
		WalletName:   w.WalletName,
	}

	receipt, err := o.claim(ctx, w, recipient, message, &res)
	if err != nil {
		res.Status = types.StatusError
		var transient *registry.TransientServiceError
		var terminal *registry.TerminalServiceError
		if errors.As(err, &transient) || errors.As(err, &terminal) {
			res.Message = err.Error()
		} else {
			res.Error = fmt.Sprintf("Processing failed: %v", err)
		}
		return res
	}

	res.Status = types.StatusSuccess
	res.Message = receipt.Message()
	res.SolutionsConsolidated = receipt.SolutionsConsolidated()
	return res
}

// claim derives, signs and submits. res.DonorAddress is set once known.
func (o *Orchestrator) claim(ctx context.Context, w types.WalletInput, recipient, message string, res *types.WalletResult) (*registry.Receipt, error) {
	id, err := o.opener.Open(w.Mnemonic)
	if err != nil {
		return nil, err
	}
	defer id.Close()

	res.DonorAddress = id.Address()
	sig, err := id.Sign(message)
	if err != nil {
		return nil, err
	}

	return o.submitter.Submit(ctx, types.Claim{
		Recipient: recipient,
		Donor:     id.Address(),
		Signature: sig,
	})
}

// Succeeded counts successful results.
func Succeeded(results []types.WalletResult) int {
	n := 0
	for _, r := range results {
		if r.Status == types.StatusSuccess {
			n++
		}
	}
	return n
}

// TotalSolutions sums the consolidated solutions of successful results.
func TotalSolutions(results []types.WalletResult) int {
	n := 0
	for _, r := range results {
		if r.Status == types.StatusSuccess {
			n += r.SolutionsConsolidated
		}
	}
	return n
}
