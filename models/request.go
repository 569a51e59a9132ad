package models

// CrawlRequest is the invocation input. Every field is optional; defaults
// come from configuration via Defaults.
type CrawlRequest struct {
	// BucketName overrides the configured default bucket.
	BucketName string `json:"bucket_name,omitempty"`

	// TargetSession is the session label to search for. Default: "1회".
	TargetSession string `json:"target_session,omitempty"`

	// GetAll switches to bulk mode: collect every record on the page
	// instead of searching for one. Default: false.
	GetAll bool `json:"get_all,omitempty"`
}

// Defaults fills unset fields from the configured values.
func (r *CrawlRequest) Defaults(bucket, target string) {
	if r.BucketName == "" {
		r.BucketName = bucket
	}
	if r.TargetSession == "" {
		r.TargetSession = target
	}
}
