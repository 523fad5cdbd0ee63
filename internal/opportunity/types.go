// Package opportunity proposes special timed offers tied to current
// market conditions.
package opportunity

import (
	"github.com/zappabad/bullrun/internal/catalog"
)

// Opportunity is an active timed offer. At most one exists at a time;
// accepting or expiring it clears it.
type Opportunity struct {
	Type        catalog.OpportunityType
	Title       string
	Description string
	Action      string
	Asset       catalog.AssetID
	Risk        catalog.RiskTier
	Time        int64
}
