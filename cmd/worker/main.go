package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/address-normalizer/app/bootstrap"
	"github.com/address-normalizer/app/config"
	"github.com/address-normalizer/app/models"
	"github.com/address-normalizer/app/services"
	"github.com/address-normalizer/internal/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	parserConfigPath string
	logger           *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worker",
		Short: "Address normalizer batch tools",
		Long:  `Chuẩn hóa địa chỉ đường bộ Hàn Quốc từ dòng lệnh: chuẩn hóa đơn, tìm ứng viên, bulk file và seed dữ liệu tham chiếu`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bootstrap.LoadInfra()
			if parserConfigPath == "" {
				parserConfigPath = viper.GetString("app.parser_config")
			}
			if err := config.Load(parserConfigPath); err != nil {
				return err
			}
			var err error
			logger, err = bootstrap.InitLogger(viper.GetString("app.env"))
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&parserConfigPath, "config", "", "parser config file (default config/parser.yaml)")

	rootCmd.AddCommand(createNormalizeCmd())
	rootCmd.AddCommand(createSearchCmd())
	rootCmd.AddCommand(createBulkCmd())
	rootCmd.AddCommand(createSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// withStack dựng các service, chạy fn rồi đóng kết nối
func withStack(fn func(ctx context.Context, stack *bootstrap.Stack) error) error {
	ctx := context.Background()
	stack, err := bootstrap.Build(ctx, config.C, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Warn("Error closing resources", zap.Error(err))
		}
		_ = logger.Sync()
	}()
	return fn(ctx, stack)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func createNormalizeCmd() *cobra.Command {
	var skipAI bool
	cmd := &cobra.Command{
		Use:   "normalize [address]",
		Short: "Normalize a single address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(func(ctx context.Context, stack *bootstrap.Stack) error {
				result, _ := stack.Address.NormalizeAddress(ctx, args[0], skipAI)
				return printJSON(result)
			})
		},
	}
	cmd.Flags().BoolVar(&skipAI, "skip-ai", false, "không gọi AI khi không tìm thấy")
	return cmd
}

func createSearchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "List candidate addresses for a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStack(func(ctx context.Context, stack *bootstrap.Stack) error {
				cands, err := stack.Address.Search(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printJSON(cands)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "số ứng viên tối đa")
	return cmd
}

func createBulkCmd() *cobra.Command {
	var (
		skipAI bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "bulk [file]",
		Short: "Normalize every address in a .txt or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := services.ReadAddressFile(args[0])
			if err != nil {
				return err
			}

			return withStack(func(ctx context.Context, stack *bootstrap.Stack) error {
				start := time.Now()
				status, results, err := stack.Address.RunJob(rows, skipAI)
				if err != nil {
					return err
				}

				logger.Info("Bulk job finished",
					zap.String("job_id", status.JobID),
					zap.String("status", status.Status),
					zap.Int("rows", status.Total),
					zap.Int("matched", countMatched(results)),
					zap.Duration("took", time.Since(start)))

				if out == "" {
					return services.WriteNDJSON(os.Stdout, results)
				}
				return services.WriteResultsFile(out, rows, results)
			})
		},
	}
	cmd.Flags().BoolVar(&skipAI, "skip-ai", false, "trả về needs_review thay vì gọi AI")
	cmd.Flags().StringVar(&out, "out", "", "file kết quả (.xlsx hoặc NDJSON); mặc định stdout")
	return cmd
}

func countMatched(results []*models.NormalizationResult) int {
	n := 0
	for _, r := range results {
		if r != nil && r.Success {
			n++
		}
	}
	return n
}

func createSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Load reference addresses from a JSON seed file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Nạp qua MemoryStore để kiểm tra ràng buộc và suy ra road_full_addr
			seed, err := search.LoadMemoryStore(args[0])
			if err != nil {
				return err
			}
			records, details := seed.All(), seed.AllDetails()

			ctx := context.Background()
			store, _, closer, err := bootstrap.OpenStore(ctx, config.C, logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer()
			}

			switch s := store.(type) {
			case *search.MongoStore:
				err = s.Import(ctx, records, details)
			case *search.MeiliStore:
				if err = s.BuildIndexes(); err == nil {
					err = s.SeedData(records, details)
				}
			default:
				err = errors.New("store driver " + config.C.Store.Driver + " does not support seeding")
			}
			if err != nil {
				return err
			}

			logger.Info("Seed completed",
				zap.String("store", config.C.Store.Driver),
				zap.Int("addresses", len(records)),
				zap.Int("details", len(details)))
			return nil
		},
	}
}
