package engine

import (
	"fmt"

	"github.com/ishaandev07/WebDevDynamics/internal/config"
	"github.com/ishaandev07/WebDevDynamics/internal/models"
	"github.com/ishaandev07/WebDevDynamics/pkg/utils"
)

// Composer turns a confidence bucket and its candidates into the reply string.
// Templates are configuration; swapping phrasing never touches ranking. The
// medium bucket appends the runner-up response as extra context, clipped to the
// configured preview length.
type Composer struct {
	templates config.TemplateConfig
}

// NewComposer returns a composer using the given templates. The templates are
// assumed validated (config.Validate checks the %s placeholders at load time).
func NewComposer(templates config.TemplateConfig) *Composer {
	return &Composer{templates: templates}
}

// Compose renders the reply for a bucket. Results must be non-empty for every
// bucket except BucketNone.
func (c *Composer) Compose(bucket models.Bucket, results []models.MatchResult) string {
	switch bucket {
	case models.BucketHigh:
		return fmt.Sprintf(c.templates.High, results[0].Response)
	case models.BucketMedium:
		reply := fmt.Sprintf(c.templates.Medium, results[0].Response)
		if len(results) > 1 {
			preview := utils.Truncate(results[1].Response, c.templates.PreviewLength)
			reply += fmt.Sprintf(c.templates.Context, preview)
		}
		return reply
	case models.BucketLow:
		return fmt.Sprintf(c.templates.Low, results[0].Response)
	default:
		return c.templates.Fallback
	}
}
