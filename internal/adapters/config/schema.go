package config

// fileSchema mirrors the pixelmill.yaml layout. Pointer fields distinguish
// "absent" from zero so partial files only override what they mention.
type fileSchema struct {
	Cache    cacheSchema    `yaml:"cache"`
	Executor executorSchema `yaml:"executor"`
	Imaging  imagingSchema  `yaml:"imaging"`
	Log      logSchema      `yaml:"log"`
}

type cacheSchema struct {
	MaxEntries *int   `yaml:"max_entries"`
	MaxBytes   *int64 `yaml:"max_bytes"`
}

type executorSchema struct {
	MaxConcurrency *int    `yaml:"max_concurrency"`
	QueueDepth     *int    `yaml:"queue_depth"`
	TaskTimeout    *string `yaml:"task_timeout"`
}

type imagingSchema struct {
	MaxDimension *int    `yaml:"max_dimension"`
	MaxBatchSize *int    `yaml:"max_batch_size"`
	OutputFormat *string `yaml:"output_format"`
}

type logSchema struct {
	JSON *bool `yaml:"json"`
}
