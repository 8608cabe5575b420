package receipt

// Config holds settings for receipt persistence.
type Config struct {
	// Dir is the local directory receipts are written to.
	Dir string `mapstructure:"dir" default:"receipts"`
	// Upload also stores each receipt in the object storage bucket.
	Upload bool `mapstructure:"upload" default:"false"`
}
