package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sternrassler/raydium-pools-bot/internal/config"
	"github.com/Sternrassler/raydium-pools-bot/pkg/bot"
	"github.com/Sternrassler/raydium-pools-bot/pkg/client"
	"github.com/Sternrassler/raydium-pools-bot/pkg/format"
	"github.com/Sternrassler/raydium-pools-bot/pkg/logging"
	"github.com/Sternrassler/raydium-pools-bot/pkg/metrics"
	"github.com/Sternrassler/raydium-pools-bot/pkg/pagination"
	"github.com/Sternrassler/raydium-pools-bot/pkg/pools"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "poolbot",
		Short:        "Telegram bot listing Raydium liquidity pools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path (default ./poolbot.yaml if present)")
	root.PersistentFlags().String("env-file", "", ".env file path (default ./.env if present)")
	root.PersistentFlags().String("api-base-url", client.DefaultBaseURL, "Raydium API base URL")
	root.PersistentFlags().Int("page-size", client.DefaultPageSize, "pools per page")
	root.PersistentFlags().Duration("http-timeout", client.DefaultConfig("").Timeout, "Raydium HTTP client timeout")
	root.PersistentFlags().String("user-agent", "raydium-pools-bot/0.1.0", "User-Agent for Raydium requests")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-pretty", false, "human-readable console logs")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Telegram bot",
		RunE:  runBot,
	}
	runCmd.Flags().String("token", "", "Telegram bot token (prefer POOLBOT_TOKEN)")
	runCmd.Flags().Duration("poll-timeout", 60*time.Second, "long polling timeout")
	runCmd.Flags().String("metrics-addr", ":9090", "ops server address for /health and /metrics, empty disables")
	root.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print one formatted page of pools",
		RunE:  runList,
	}
	listCmd.Flags().String("type", string(pools.PoolTypeAll), "pool type (all, concentrated, standard)")
	listCmd.Flags().Int("page", 1, "page number")
	root.AddCommand(listCmd)

	return root
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(cfgFile, envFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	logging.Setup(cfg.LoggingConfig())
	return cfg, nil
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireToken(); err != nil {
		return err
	}
	logger := logging.NewLogger("poolbot")

	raydium, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create raydium client: %w", err)
	}

	if err := tgbotapi.SetLogger(botLogger{logging.NewLogger("telegram")}); err != nil {
		return fmt.Errorf("set telegram logger: %w", err)
	}
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return fmt.Errorf("authorize bot: %w", err)
	}
	logger.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")

	if err := bot.RegisterCommands(api); err != nil {
		logger.Warn().Err(err).Msg("Failed to register bot commands")
	}

	loader := pagination.NewLoader(raydium, pagination.Config{PageSize: cfg.PageSize})
	router := bot.NewRouter(api, loader, bot.DefaultConfig())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.PollTimeout.Seconds())
	updates := api.GetUpdatesChan(u)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		router.Run(gctx, updates)
		if gctx.Err() == nil {
			return errors.New("telegram update channel closed")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		api.StopReceivingUpdates()
		return nil
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.MetricsAddr)
		})
	}

	logger.Info().Int("page_size", cfg.PageSize).Str("api", cfg.APIBaseURL).Msg("Bot started")
	err = g.Wait()
	logger.Info().Msg("Bot stopped")
	return err
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	typeFlag, _ := cmd.Flags().GetString("type")
	page, _ := cmd.Flags().GetInt("page")

	poolType, err := pools.ParsePoolType(typeFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if page < 1 {
		fmt.Fprintln(out, format.FirstPageText)
		return nil
	}

	raydium, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create raydium client: %w", err)
	}
	loader := pagination.NewLoader(raydium, pagination.Config{PageSize: cfg.PageSize})

	result := loader.Load(cmd.Context(), pools.PageRequest{PoolType: poolType, Page: page})
	text, nav := format.Format(result)
	printPage(out, text, nav, result.TotalPages)
	return nil
}

func printPage(out io.Writer, text string, nav *format.Navigation, totalPages int) {
	fmt.Fprintln(out, strings.TrimRight(text, "\n"))
	if nav == nil {
		return
	}

	labels := make([]string, 0, 3)
	for _, b := range nav.Buttons() {
		labels = append(labels, fmt.Sprintf("[%s → %s]", strings.TrimSpace(b.Text), b.Payload))
	}
	fmt.Fprintf(out, "\n%s (total pages: %d)\n", strings.Join(labels, " "), totalPages)
}

// botLogger routes telegram-bot-api's internal logging into zerolog.
type botLogger struct {
	logger zerolog.Logger
}

func (l botLogger) Println(v ...interface{}) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l botLogger) Printf(msg string, v ...interface{}) {
	l.logger.Debug().Msgf(msg, v...)
}
