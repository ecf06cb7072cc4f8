package contracts

import "time"

// BreadthDaily is one market-wide breadth row
// market.breadth_daily 테이블 1행
type BreadthDaily struct {
	Date            time.Time `json:"trading_date"`
	AboveMA50Pct    float64   `json:"above_ma50_pct"`
	AboveMA200Pct   float64   `json:"above_ma200_pct"`
	Advancing       int       `json:"advancing"`
	Declining       int       `json:"declining"`
	NewHighs        int       `json:"new_52w_highs"`
	NewLows         int       `json:"new_52w_lows"`
	ADRatio         float64   `json:"advance_decline_ratio"`
	TotalVolume     int64     `json:"total_volume"`
	AdvancingVolume int64     `json:"advancing_volume"`
	DecliningVolume int64     `json:"declining_volume"`
}

// NetAdvances returns advancing minus declining issues
func (b *BreadthDaily) NetAdvances() int {
	return b.Advancing - b.Declining
}

// HLSpread returns new highs minus new lows
func (b *BreadthDaily) HLSpread() int {
	return b.NewHighs - b.NewLows
}

// SymbolEOD is one derived end-of-day row for a single symbol
type SymbolEOD struct {
	Symbol     string    `json:"symbol"`
	Date       time.Time `json:"trading_date"`
	Close      float64   `json:"close"`
	R1DPct     float64   `json:"r_1d_pct"`
	R5DPct     float64   `json:"r_5d_pct"`
	R1MPct     float64   `json:"r_1m_pct"`
	RYTDPct    float64   `json:"r_ytd_pct"`
	Volume     int64     `json:"volume"`
	RVol       float64   `json:"rvol"`
	ATRPct     float64   `json:"atr_pct"`
	RSI14      float64   `json:"rsi_14"`
	MACD       float64   `json:"macd"`
	MACDSignal float64   `json:"macd_signal"`
	BBPosition float64   `json:"bb_position"`
	DistMA20   float64   `json:"dist_ma20"`
	DistMA50   float64   `json:"dist_ma50"`
	DistMA200  float64   `json:"dist_ma200"`
}

// MACDHistogram returns MACD minus its signal line
func (s *SymbolEOD) MACDHistogram() float64 {
	return s.MACD - s.MACDSignal
}
