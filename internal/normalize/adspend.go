package normalize

import (
	"strings"

	"github.com/ridewell/import-service/internal/mapping"
	"github.com/ridewell/import-service/internal/types"
)

// synthesizeAdSpend builds one AdSpendRecord from an advertising-platform
// spend export row
func (n *Normalizer) synthesizeAdSpend(st *rowState) {
	campaign := st.text(mapping.FieldAdCampaign, true)
	spendDate, dateOK := st.date(mapping.FieldAdSpendDate, true)
	spend := st.money(mapping.FieldAdSpend, true)
	if st.rejected || !dateOK {
		return
	}

	platform := st.text(mapping.FieldAdPlatform, false)
	if platform == "" {
		platform = "unknown"
	}

	currency := strings.ToUpper(st.text(mapping.FieldCurrency, false))
	if currency == "" {
		currency = "USD"
	}

	st.entities.AdSpend = append(st.entities.AdSpend, types.AdSpendRecord{
		DedupKey:    AdSpendKey(platform, campaign, spendDate),
		Platform:    platform,
		Campaign:    campaign,
		SpendDate:   spendDate,
		Spend:       spend,
		Clicks:      st.integer(mapping.FieldAdClicks),
		Impressions: st.integer(mapping.FieldAdImpressions),
		Currency:    currency,
	})
}
