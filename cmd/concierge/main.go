package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/nadlanit/concierge/internal/admin"
	"github.com/nadlanit/concierge/internal/broadcast"
	"github.com/nadlanit/concierge/internal/config"
	"github.com/nadlanit/concierge/internal/embedder"
	"github.com/nadlanit/concierge/internal/hours"
	"github.com/nadlanit/concierge/internal/livechat"
	"github.com/nadlanit/concierge/internal/llmclient"
	"github.com/nadlanit/concierge/internal/llmpipeline"
	"github.com/nadlanit/concierge/internal/memory"
	"github.com/nadlanit/concierge/internal/orchestrator"
	"github.com/nadlanit/concierge/internal/ragindex"
	"github.com/nadlanit/concierge/internal/ratelimit"
	"github.com/nadlanit/concierge/internal/referral"
	"github.com/nadlanit/concierge/internal/seed"
	"github.com/nadlanit/concierge/internal/store"
	"github.com/nadlanit/concierge/internal/store/sqlite"
	"github.com/nadlanit/concierge/internal/telegram"
	"github.com/nadlanit/concierge/internal/vectorstore"
	"github.com/nadlanit/concierge/internal/version"
)

// channelNotifier breaks the construction cycle between the orchestrator
// (which needs a Notifier to reach the owner and relay takeovers) and the
// telegram channel (which needs the orchestrator to dispatch events): the
// services are wired against this adapter first, and its underlying
// channel is attached once the channel itself is built.
type channelNotifier struct {
	ch *telegram.Channel
}

func (n *channelNotifier) Send(ctx context.Context, userID, text string) error {
	if n.ch == nil {
		return errors.New("telegram channel not yet started")
	}
	return n.ch.Send(ctx, userID, text)
}

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "A conversational service agent for a small business: RAG chat, appointment booking, live-chat takeover, broadcasts, and referrals.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !isRunningAsSystemdService() {
			_ = godotenv.Load()
		}
		return nil
	},
	RunE: runMain,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Hash a password for use as ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := admin.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hashed)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.StringFull())
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("bot", true, "run the Telegram chat channel")
	rootCmd.PersistentFlags().Bool("admin", true, "run the admin HTTP surface")
	rootCmd.PersistentFlags().String("seed", "", "path to a JSON fixture of knowledge-base entries and business hours to load at startup")

	_ = viper.BindPFlag("bot", rootCmd.PersistentFlags().Lookup("bot"))
	_ = viper.BindPFlag("admin", rootCmd.PersistentFlags().Lookup("admin"))
	_ = viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))

	viper.AutomaticEnv()

	rootCmd.AddCommand(hashPasswordCmd, versionCmd)
}

func runMain(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runBot := viper.GetBool("bot")
	runAdmin := viper.GetBool("admin")
	seedPath := viper.GetString("seed")

	// Passing only --bot or only --admin runs that surface alone; with
	// neither flag both run, and a missing bot token drops to admin-only.
	botSet, adminSet := cmd.Flags().Changed("bot"), cmd.Flags().Changed("admin")
	switch {
	case botSet && !adminSet && runBot:
		runAdmin = false
	case adminSet && !botSet && runAdmin:
		runBot = false
	case !botSet && !adminSet && cfg.TelegramBotToken == "":
		slog.Warn("TELEGRAM_BOT_TOKEN not set; running the admin surface only")
		runBot = false
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	st := store.New(driver)
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if seedPath != "" {
		if err := seed.LoadFixture(ctx, st, seedPath); err != nil {
			return fmt.Errorf("failed to load seed fixture %s: %w", seedPath, err)
		}
	}

	llm := llmclient.New(cfg)
	emb := embedder.New(llm, cfg.EmbeddingDimension)
	vs, err := vectorstore.Open(cfg.VectorIndexDir, float32(cfg.RAGMinRelevance))
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	ragMgr := ragindex.New(cfg.VectorIndexDir, cfg.ChunkMaxTokens, cfg.RAGTopK, st, emb, vs)

	calendar := hours.NewFixedDateCalendar()
	hoursRes := hours.NewResolver(st, calendar)

	limiter := ratelimit.New(cfg.RateLimitPerMinute, cfg.RateLimitPerHour, cfg.RateLimitPerDay)

	summarizer, err := memory.NewSummarizer(st, llm, cfg.SummaryThreshold)
	if err != nil {
		return fmt.Errorf("failed to create summarizer: %w", err)
	}

	owner := &channelNotifier{}
	liveChat := livechat.New(st, owner)
	referrals := referral.New(st, owner, cfg.ReferralCreditAmount, cfg.ReferralCreditExpiryDays, cfg.TelegramBotUsername)
	broadcastWorker := broadcast.NewWorker(st, owner)
	pipeline := llmpipeline.New(llm)

	orch := orchestrator.New(orchestrator.Config{
		Store:         st,
		RateLimiter:   limiter,
		LiveChat:      liveChat,
		HoursResolver: hoursRes,
		RAGManager:    ragMgr,
		Pipeline:      pipeline,
		Summarizer:    summarizer,
		Referrals:     referrals,
		Owner:         owner,
		Cfg:           cfg,
	})

	if runBot {
		if _, err := liveChat.SweepStartup(ctx); err != nil {
			slog.Warn("failed to sweep stale live-chat sessions", "error", err)
		}
	}

	adminServer := admin.NewServer(admin.Deps{
		Cfg:       cfg,
		Store:     st,
		LiveChat:  liveChat,
		Referrals: referrals,
		Broadcast: broadcastWorker,
		RAGMgr:    ragMgr,
		HoursRes:  hoursRes,
	})

	group, gctx := errgroup.WithContext(ctx)

	if runBot {
		if err := cfg.RequireBotToken(); err != nil {
			return err
		}
		channel, err := telegram.New(cfg.TelegramBotToken, orch)
		if err != nil {
			return fmt.Errorf("failed to create telegram channel: %w", err)
		}
		owner.ch = channel
		group.Go(func() error {
			return channel.Run(gctx)
		})
	}

	if runAdmin {
		group.Go(func() error {
			return adminServer.Start(gctx)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, terminationSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	printGreeting(cfg, runBot, runAdmin)

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func printGreeting(cfg *config.Config, runBot, runAdmin bool) {
	fmt.Printf("concierge %s started\n", version.GetCurrentVersion(cfg.Mode))
	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	fmt.Printf("Mode: %s\n", cfg.Mode)
	if runAdmin {
		fmt.Printf("Admin panel: http://%s:%d\n", cfg.AdminHost, cfg.AdminPort)
	}
	if runBot {
		fmt.Println("Telegram channel: polling")
	}
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("concierge exited with error", "error", err)
		os.Exit(1)
	}
}
