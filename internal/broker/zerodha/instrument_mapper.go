package zerodha

import "sync"

// instrumentMapper translates between trading symbols and Kite instrument
// tokens for the subscribed universe.
//
// TODO: resolve unknown symbols via kc.GetInstruments instead of the static
// table below.
type instrumentMapper struct {
	mu            sync.RWMutex
	symbolToToken map[string]uint32
	tokenToSymbol map[uint32]string
}

var knownTokens = map[string]uint32{
	"RELIANCE":   256265,
	"TCS":        2953217,
	"HDFCBANK":   341249,
	"INFY":       408065,
	"HCLTECH":    1850625,
	"LT":         2939649,
	"SBIN":       779521,
	"ICICIBANK":  1270529,
	"AXISBANK":   1510401,
	"KOTAKBANK":  492033,
	"ITC":        424961,
	"TATAMOTORS": 884737,
	"TITAN":      897537,
	"JSWSTEEL":   3001089,
	"ULTRACEMCO": 2952193,
	"BAJFINANCE": 81153,
	"HDFCLIFE":   119553,
	"BHARTIARTL": 2714625,
	"ASIANPAINT": 60417,
	"MARUTI":     2815745,
	"INDIA VIX":  264969,
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{
		symbolToToken: make(map[string]uint32),
		tokenToSymbol: make(map[uint32]string),
	}
}

// register binds a symbol to its token and returns the token. Unknown
// symbols get a synthetic token derived from insertion order so they can
// still be round-tripped within this process.
func (m *instrumentMapper) register(symbol string) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, exists := m.symbolToToken[symbol]; exists {
		return token
	}

	token, exists := knownTokens[symbol]
	if !exists {
		token = uint32(1000000 + len(m.symbolToToken))
	}

	m.symbolToToken[symbol] = token
	m.tokenToSymbol[token] = symbol
	return token
}

func (m *instrumentMapper) symbol(token uint32) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	symbol, ok := m.tokenToSymbol[token]
	return symbol, ok
}
