// segtrain 是离线客群训练器：读取客户导出 CSV，标准化后跑 k-means，
// 把配套的模型（scaler 统计量 + 质心）写成一个 JSON 文件，并导出每个
// 客户的客群标签。可选地把两者推到 Redis 供在线服务直接加载。
//
// 用法：
//
//	segtrain -config segtrain.yaml
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/model"
	"github.com/dressly/dresskit/store"
)

// Config 是训练器的 YAML 配置。
type Config struct {
	// CustomersCSV 客户导出表路径，列：id,age,annual_income,spending_score
	CustomersCSV string `yaml:"customers_csv"`
	// ModelPath 模型 JSON 输出路径
	ModelPath string `yaml:"model_path"`
	// AssignmentsCSV 客群标签导出路径（id,cluster）
	AssignmentsCSV string `yaml:"assignments_csv"`

	K    int   `yaml:"k"`
	Seed int64 `yaml:"seed"`

	// Redis 可选，设置 addr 时把模型与标签表推到 Redis
	Redis struct {
		Addr           string `yaml:"addr"`
		DB             int    `yaml:"db"`
		ModelKey       string `yaml:"model_key"`
		AssignmentsKey string `yaml:"assignments_key"`
	} `yaml:"redis"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{
		K:    model.DefaultK,
		Seed: model.DefaultSeed,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.CustomersCSV == "" {
		return nil, fmt.Errorf("config: customers_csv not set")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("config: model_path not set")
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "segtrain.yaml", "训练配置文件路径")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ids, rows, err := loadCustomers(cfg.CustomersCSV)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CustomersCSV).Msg("load customers")
	}
	log.Info().Int("customers", len(ids)).Str("path", cfg.CustomersCSV).Msg("customers loaded")

	m, labels, err := model.TrainSegmentModel(core.ProfileFeatureNames(), rows, cfg.K, cfg.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("train segment model")
	}
	log.Info().Int("k", m.K()).Int64("seed", cfg.Seed).Msg("segment model fitted")

	if err := m.Save(cfg.ModelPath); err != nil {
		log.Fatal().Err(err).Str("path", cfg.ModelPath).Msg("save model")
	}
	log.Info().Str("path", cfg.ModelPath).Msg("model written")

	assignments := make(map[int64]int, len(ids))
	for i, id := range ids {
		assignments[id] = labels[i]
	}

	if cfg.AssignmentsCSV != "" {
		if err := writeAssignments(cfg.AssignmentsCSV, ids, labels); err != nil {
			log.Fatal().Err(err).Str("path", cfg.AssignmentsCSV).Msg("write assignments")
		}
		log.Info().Str("path", cfg.AssignmentsCSV).Msg("assignments written")
	}

	if cfg.Redis.Addr != "" {
		if err := pushToRedis(cfg, m, assignments); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("push to redis")
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("model and assignments pushed to redis")
	}
}

// loadCustomers 读取客户导出表。空白/缺失的数值字段解析为 NaN，
// 由 scaler 在拟合时用列均值填充，不丢弃任何记录。
func loadCustomers(path string) ([]int64, [][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("no customer rows in %s", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"id", "age", "annual_income", "spending_score"} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("missing column %q in %s", required, path)
		}
	}

	var ids []int64
	var rows [][]float64
	for _, rec := range records[1:] {
		id, err := strconv.ParseInt(rec[col["id"]], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bad id %q: %w", rec[col["id"]], err)
		}
		row := []float64{
			parseCell(rec[col["age"]]),
			parseCell(rec[col["annual_income"]]),
			parseCell(rec[col["spending_score"]]),
		}
		ids = append(ids, id)
		rows = append(rows, row)
	}
	return ids, rows, nil
}

func parseCell(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func writeAssignments(path string, ids []int64, labels []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "cluster"}); err != nil {
		return err
	}
	for i, id := range ids {
		if err := w.Write([]string{strconv.FormatInt(id, 10), strconv.Itoa(labels[i])}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func pushToRedis(cfg *Config, m *model.SegmentModel, assignments map[int64]int) error {
	s, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	modelKey := cfg.Redis.ModelKey
	if modelKey == "" {
		modelKey = "segment:model"
	}
	if err := m.SaveToStore(ctx, s, modelKey); err != nil {
		return err
	}

	assignmentsKey := cfg.Redis.AssignmentsKey
	if assignmentsKey == "" {
		assignmentsKey = "segment:assignments"
	}
	table := model.NewSegmentTable(assignments)
	return table.SaveToStore(ctx, s, assignmentsKey)
}
