// Package launcher orchestrates the pipeline: post -> token idea ->
// metadata pin -> vanity salt -> chain submissions.
package launcher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/ttma1046/launchmeow/ai"
	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/messaging"
	"github.com/ttma1046/launchmeow/metadata"
	"github.com/ttma1046/launchmeow/storage"
	"github.com/ttma1046/launchmeow/vanity"
)

// EVMSubmitter sends the portal createToken transaction.
type EVMSubmitter interface {
	CreateToken(ctx context.Context, salt [32]byte, name, symbol, metadataURI string) (string, error)
}

// SolanaSubmitter mints a token on the bonding-curve program.
type SolanaSubmitter interface {
	CreateToken(ctx context.Context, name, symbol, metadataURI string) (mint, signature string, err error)
}

// Namer turns a post into a token idea. ai.DeriveTokenIdea in production.
type Namer func(ctx context.Context, post core.Post) (core.TokenIdea, error)

// Config wires the launcher's collaborators. Nil Pinner/EVM/Solana skip the
// corresponding stage, so the pipeline degrades instead of refusing to run.
type Config struct {
	Store     storage.Store
	Messenger *messaging.Messenger
	Namer     Namer
	Pinner    metadata.Pinner
	EVM       EVMSubmitter
	Solana    SolanaSubmitter

	// vanity search inputs; Deployer is the portal contract that will
	// execute the CREATE2
	Deployer       vanity.Address
	Implementation vanity.Address
	Suffix         string
	MaxIterations  uint64
	Workers        int
}

// Launcher consumes posts and drives launches to completion one at a time,
// keeping the salt search the only hot loop in the process.
type Launcher struct {
	cfg   Config
	posts chan core.Post
}

func New(cfg Config) *Launcher {
	if cfg.Namer == nil {
		cfg.Namer = ai.DeriveTokenIdea
	}
	return &Launcher{
		cfg:   cfg,
		posts: make(chan core.Post, 64),
	}
}

// Start subscribes to the posts subject and processes launches until ctx is
// cancelled.
func (l *Launcher) Start(ctx context.Context) error {
	sub, err := l.cfg.Messenger.Subscribe(core.SubjectPosts, func(msg *nats.Msg) {
		var post core.Post
		if err := json.Unmarshal(msg.Data, &post); err != nil {
			log.Printf("launcher: dropping malformed post: %v", err)
			return
		}
		select {
		case l.posts <- post:
		default:
			log.Printf("launcher: queue full, dropping post %s", post.ID)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe posts: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case post := <-l.posts:
			if _, err := l.ProcessPost(ctx, post); err != nil {
				log.Printf("launcher: post %s failed: %v", post.ID, err)
			}
		}
	}
}

// ProcessPost runs the full pipeline for one post. Already-processed posts
// return without a launch.
func (l *Launcher) ProcessPost(ctx context.Context, post core.Post) (core.Launch, error) {
	seen, err := l.cfg.Store.IsPostProcessed(post.ID)
	if err != nil {
		return core.Launch{}, fmt.Errorf("dedupe check: %w", err)
	}
	if seen {
		return core.Launch{}, nil
	}
	if err := l.cfg.Store.MarkPostProcessed(post.ID); err != nil {
		return core.Launch{}, fmt.Errorf("mark post: %w", err)
	}

	launch := core.Launch{
		ID:        uuid.NewString(),
		Post:      post,
		Status:    core.StatusPending,
		CreatedAt: time.Now().Unix(),
	}
	l.record(&launch, core.StatusPending)

	idea, err := l.cfg.Namer(ctx, post)
	if err != nil {
		return l.fail(launch, fmt.Errorf("derive token idea: %w", err))
	}
	launch.Idea = idea
	l.record(&launch, core.StatusNamed)

	if l.cfg.Pinner != nil {
		uri, err := l.cfg.Pinner.PinTokenMetadata(ctx, core.TokenMetadata{
			Name:        idea.Name,
			Symbol:      idea.Symbol,
			Description: idea.Description,
			Image:       idea.ImageURL,
			SourcePost:  post.ID,
		})
		if err != nil {
			return l.fail(launch, fmt.Errorf("pin metadata: %w", err))
		}
		launch.MetadataURI = uri
		l.record(&launch, core.StatusPinned)
	}

	if l.cfg.EVM != nil {
		res, err := vanity.FindSalt(ctx, vanity.Params{
			Deployer:       l.cfg.Deployer,
			Implementation: l.cfg.Implementation,
			Suffix:         l.cfg.Suffix,
			MaxIterations:  l.cfg.MaxIterations,
			Workers:        l.cfg.Workers,
		})
		if err != nil {
			return l.fail(launch, fmt.Errorf("vanity search: %w", err))
		}
		launch.Salt = res.Salt.Hex()
		launch.Predicted = res.Address.Hex()
		l.record(&launch, core.StatusSaltFound)
		log.Printf("launcher: %s found salt for %s after %d iterations",
			launch.ID, res.Address.Hex(), res.Iterations)

		txHash, err := l.cfg.EVM.CreateToken(ctx, [32]byte(res.Salt), idea.Name, idea.Symbol, launch.MetadataURI)
		evmResult := core.ChainResult{Chain: "evm", Address: res.Address.Hex(), TxHash: txHash}
		if err != nil {
			evmResult.Error = err.Error()
		}
		launch.Results = append(launch.Results, evmResult)
	}

	if l.cfg.Solana != nil {
		mint, sig, err := l.cfg.Solana.CreateToken(ctx, idea.Name, idea.Symbol, launch.MetadataURI)
		solResult := core.ChainResult{Chain: "solana", Address: mint, TxHash: sig}
		if err != nil {
			solResult.Error = err.Error()
		}
		launch.Results = append(launch.Results, solResult)
	}

	status := core.StatusSubmitted
	if len(launch.Results) > 0 {
		allFailed := true
		for _, r := range launch.Results {
			if r.Error == "" {
				allFailed = false
			}
		}
		if allFailed {
			status = core.StatusFailed
		}
	}
	l.record(&launch, status)
	return launch, nil
}

// record persists the launch at a status transition and broadcasts it.
func (l *Launcher) record(launch *core.Launch, status string) {
	launch.Status = status
	launch.UpdatedAt = time.Now().Unix()
	if err := l.cfg.Store.SaveLaunch(*launch); err != nil {
		log.Printf("launcher: save launch %s: %v", launch.ID, err)
	}
	if err := l.cfg.Messenger.PublishJSON(core.SubjectLaunches, *launch); err != nil {
		log.Printf("launcher: publish launch %s: %v", launch.ID, err)
	}
}

func (l *Launcher) fail(launch core.Launch, err error) (core.Launch, error) {
	l.record(&launch, core.StatusFailed)
	return launch, err
}
