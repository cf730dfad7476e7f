package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/scopt/internal/autodiff"
	"github.com/born-ml/scopt/internal/metrics"
	"github.com/born-ml/scopt/internal/tensor"
	"github.com/born-ml/scopt/internal/train"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a synthetic ridge regression problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			r, err := newRun(cfg)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			log := logrus.WithFields(logrus.Fields{"run_id": runID})

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			if cfg.Metrics.Addr != "" {
				stop := serveMetrics(cfg.Metrics.Addr, reg, log)
				defer stop()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			tr := &train.Trainer{
				Optimizer:  r.optimizer,
				Parameters: r.model.Parameters(),
				Loss: func(tape *autodiff.GradientTape) *tensor.RawTensor {
					return r.data.Loss(tape, r.model)
				},
				LogEvery: cfg.Train.LogEvery,
				Logger:   log,
				Metrics:  m,
			}

			res, err := tr.Run(ctx, cfg.Train.Steps)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			summary := map[string]any{
				"run_id":     runID,
				"steps":      res.Steps,
				"final_loss": res.FinalLoss,
				"eval_loss":  r.data.Evaluate(r.model),
				"duration":   res.Duration.String(),
				"optimizer":  r.optimizer.GetConfig(),
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			if encErr := enc.Encode(summary); encErr != nil {
				return errors.Wrap(encErr, "writing summary")
			}
			return err
		},
	}

	cmd.Flags().String("optimizer", "", "optimizer name (sc_adagrad, sc_rmsprop, rmsprop_variant, sgd, adam)")
	cmd.Flags().Float64("lr", 0, "learning rate; 0 uses the optimizer default")
	cmd.Flags().Float64("decay", 0, "learning rate decay per step")
	cmd.Flags().Int("workers", 1, "parameters updated concurrently; 0 uses one per CPU")
	cmd.Flags().String("constraint", "none", "weight constraint (none, nonneg, maxnorm, unitnorm)")
	cmd.Flags().Int("steps", 500, "number of optimizer steps")
	cmd.Flags().Int("log-every", 50, "log progress every N steps")
	cmd.Flags().Uint64("seed", 1, "dataset seed")
	cmd.Flags().String("dtype", "float64", "element type (float32, float64)")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

// serveMetrics exposes reg on addr until the returned stop func is called.
func serveMetrics(addr string, reg *prometheus.Registry, log *logrus.Entry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}
	}
}
