package main

// Config is read from flags and environment by goconfig.
type Config struct {
	Rows        int     `usage:"largest row index of the sheet"`
	Cols        int     `usage:"largest column index of the sheet"`
	StructSize  int     `usage:"record width in bytes"`
	Density     float64 `usage:"fraction of populated cells"`
	Seed        int64   `usage:"random seed"`
	Edits       int     `usage:"number of random row edits"`
	Step        int     `usage:"row step of the sweep"`
	Parallelism int     `usage:"goroutines per row edit"`
	MemoryLimit int64   `usage:"memory budget in bytes, 0 for unlimited"`
	Compression string  `usage:"snapshot compression: none | lz4 | zstd"`
	LogLevel    string  `usage:"log level: debug | info | warn | error"`
	ShowConfig  bool    `usage:"print config"`
}

func defaultConfig() Config {
	return Config{
		Rows:        100_000,
		Cols:        256,
		StructSize:  16,
		Density:     0.01,
		Seed:        1,
		Edits:       200,
		Step:        1,
		Parallelism: 4,
		Compression: "lz4",
		LogLevel:    "info",
	}
}
