package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/HaPhanBaoMinh/kusage/internal/app"
	"github.com/HaPhanBaoMinh/kusage/internal/config"
	"github.com/HaPhanBaoMinh/kusage/internal/domain"
	kk "github.com/HaPhanBaoMinh/kusage/internal/infrastructure/k8s"
	"github.com/HaPhanBaoMinh/kusage/internal/infrastructure/kubectl"
	"github.com/HaPhanBaoMinh/kusage/internal/infrastructure/mock"
	"github.com/HaPhanBaoMinh/kusage/internal/logging"
	"github.com/HaPhanBaoMinh/kusage/internal/report"
)

type options struct {
	namespace     string
	allNamespaces bool
	configPath    string
	kubeconfig    string
	context       string
	kubectlBin    string
	useMock       bool
	logLevel      string
	color         bool
	bars          bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:          "kusage (-n NAMESPACE | -A)",
		Short:        "Sum pod CPU and memory usage per namespace from `kubectl top pods`",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.namespace, "namespace", "n", "", "namespace to fetch pod metrics from")
	f.BoolVarP(&o.allNamespaces, "all-namespaces", "A", false, "fetch pod metrics from all namespaces")
	f.StringVar(&o.configPath, "config", "", "path to config file (default "+config.DefaultPath()+")")
	f.StringVar(&o.kubeconfig, "kubeconfig", "", "path to kubeconfig passed to kubectl")
	f.StringVar(&o.context, "context", "", "kube context passed to kubectl")
	f.StringVar(&o.kubectlBin, "kubectl", "", "kubectl binary to run")
	f.BoolVar(&o.useMock, "mock", false, "use generated metrics instead of kubectl")
	f.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&o.color, "color", false, "style section titles")
	f.BoolVar(&o.bars, "bars", false, "show each namespace's share of total CPU")

	cmd.MarkFlagsMutuallyExclusive("namespace", "all-namespaces")
	cmd.MarkFlagsOneRequired("namespace", "all-namespaces")
	return cmd
}

func run(cmd *cobra.Command, o options) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), cfg, o)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	mode := domain.Mode{Namespace: o.namespace, AllNamespaces: o.allNamespaces}
	if err := mode.Validate(); err != nil {
		return err
	}

	source, err := newSource(cfg, logger)
	if err != nil {
		return err
	}

	printer := report.Printer{Color: cfg.Output.Color, Bars: cfg.Output.Bars, BarWidth: cfg.Output.BarWidth}
	return app.New(source, printer, logger).Run(cmd.Context(), mode, cmd.OutOrStdout())
}

// applyFlags lets explicitly set flags win over file and env config.
func applyFlags(f *pflag.FlagSet, cfg *config.Config, o options) {
	if f.Changed("kubeconfig") {
		cfg.Kubernetes.KubeconfigPath = o.kubeconfig
	}
	if f.Changed("context") {
		cfg.Kubernetes.Context = o.context
	}
	if f.Changed("kubectl") {
		cfg.Kubectl.Binary = o.kubectlBin
	}
	if f.Changed("mock") {
		cfg.Mock.Enabled = o.useMock
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if f.Changed("color") {
		cfg.Output.Color = o.color
	}
	if f.Changed("bars") {
		cfg.Output.Bars = o.bars
	}
}

func newSource(cfg *config.Config, logger *zap.Logger) (domain.MetricsSource, error) {
	if cfg.Mock.Enabled {
		logger.Debug("using mock metrics source", zap.Int64("seed", cfg.Mock.Seed))
		return mock.New(cfg.Mock.Seed), nil
	}

	target, err := kk.ResolveKubeconfig(cfg.Kubernetes.KubeconfigPath, cfg.Kubernetes.Context)
	if err != nil {
		return nil, err
	}
	logger.Debug("resolved kube target",
		zap.String("kubeconfig", target.Kubeconfig),
		zap.String("context", target.Context),
		zap.String("cluster", target.Cluster),
	)
	return kubectl.New(cfg.Kubectl.Binary, target, logger.Named("kubectl")), nil
}
