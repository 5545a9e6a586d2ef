package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Logger struct {
	Level string `yaml:"level"`
}

// Build constructs the process logger at the configured level. An empty
// level means info.
func (l Logger) Build() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if l.Level != "" {
		level, err := zapcore.ParseLevel(l.Level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	return cfg.Build()
}

type Global struct {
	Logger Logger `yaml:"logger"`
}

// Rows configures how fetched rows resolve keys.
type Rows struct {
	KeyStyle        string `yaml:"key_style"`
	Legacy          bool   `yaml:"legacy"`
	CaseInsensitive bool   `yaml:"case_insensitive"`
}

type Source struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connection_string"`

	// sql sources
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
	Query  string `yaml:"query"`

	// mongodb sources
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type ParquetField struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	ConvertedType  string `yaml:"converted_type"`
	RepetitionType string `yaml:"repetition_type"`
	Scale          int    `yaml:"scale"`
	Precision      int    `yaml:"precision"`
}

type Parquet struct {
	Schema []ParquetField `yaml:"schema"`
}

type Preserver struct {
	Type                string  `yaml:"type"`
	BatchSizeNumRecords int     `yaml:"batch_size_num_records"`
	Parquet             Parquet `yaml:"parquet"`
}

type LocalConfig struct {
	Path string `yaml:"path"`
}

type S3Config struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	Prefix         string `yaml:"prefix"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type Repository struct {
	Type        string      `yaml:"type"`
	LocalConfig LocalConfig `yaml:"local"`
	S3Config    S3Config    `yaml:"s3"`
}

type Snapshot struct {
	Name       string     `yaml:"name"`
	Source     Source     `yaml:"source"`
	Rows       Rows       `yaml:"rows"`
	Repository Repository `yaml:"repository"`
	Preserver  Preserver  `yaml:"preserver"`
}

type Query struct {
	Name string `yaml:"name"`
	SQL  string `yaml:"sql"`
	Rows Rows   `yaml:"rows"`
}

type Serve struct {
	Listen  string  `yaml:"listen"`
	Source  Source  `yaml:"source"`
	Queries []Query `yaml:"queries"`
}

type Kafka struct {
	URI            string `yaml:"uri"`
	FlushTimeoutMS int    `yaml:"flush_timeout_ms"`
}

type Emit struct {
	Source Source `yaml:"source"`
	Rows   Rows   `yaml:"rows"`
	Kafka  Kafka  `yaml:"kafka"`
}

type Checkpoint struct {
	Path string `yaml:"path"`
}

type Tail struct {
	Name             string     `yaml:"name"`
	ConnectionString string     `yaml:"connection_string"`
	Checkpoint       Checkpoint `yaml:"checkpoint"`
	CheckpointEvery  int        `yaml:"checkpoint_every"`
}

type Rowset struct {
	Global   Global   `yaml:"global"`
	Snapshot Snapshot `yaml:"snapshot"`
	Serve    Serve    `yaml:"serve"`
	Emit     Emit     `yaml:"emit"`
	Tail     Tail     `yaml:"tail"`
}

func NewRowsetFromFile(fpath string) (*Rowset, error) {
	bs, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}

	var rowset Rowset
	if err := yaml.Unmarshal(bs, &rowset); err != nil {
		return nil, err
	}

	return &rowset, nil
}
