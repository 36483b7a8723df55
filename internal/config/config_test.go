package config

import "testing"

func valid() Config {
	return Config{
		KeyFile:       "key.hex",
		Parallel:      4,
		EncryptSuffix: ".enc",
		Files:         []string{"a.txt"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"passphrase instead of key file", func(c *Config) {
			c.KeyFile = ""
			c.Passphrase = true
		}, false},
		{"no key source", func(c *Config) { c.KeyFile = "" }, true},
		{"both key sources", func(c *Config) { c.Passphrase = true }, true},
		{"no files", func(c *Config) { c.Files = nil }, true},
		{"zero workers", func(c *Config) { c.Parallel = 0 }, true},
		{"negative workers", func(c *Config) { c.Parallel = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
