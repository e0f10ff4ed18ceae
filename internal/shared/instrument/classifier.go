// Package instrument は銘柄シンボルの種別判定と、取得先サイト用シンボルへの変換を提供します。
package instrument

import (
	"regexp"
	"strings"
)

// Kind は銘柄の種別です。
type Kind string

const (
	KindDomesticEquity Kind = "domestic_equity"
	KindDomesticIndex  Kind = "domestic_index"
	KindUSIndex        Kind = "us_index"
	KindFX             Kind = "fx"
	KindOther          Kind = "other"
)

// DomesticMarketSuffix は東証銘柄に付与する市場サフィックスです。
const DomesticMarketSuffix = ".T"

const (
	nikkeiTarget  = "998407.O" // 日経平均のサイト内コード
	fxSuffix      = "=FX"
	chartFXSuffix = "=X"
)

var (
	domesticCodePattern = regexp.MustCompile(`^\d{4}$`)
	fxPattern           = regexp.MustCompile(`^([A-Z]{6})(=X|=FX)?$`)
)

// usIndices は米国主要指数のニーモニックとURLエンコード済みのサイト内シンボルです。
var usIndices = map[string]string{
	"^DJI":  "%5EDJI",
	"^IXIC": "%5EIXIC",
	"^GSPC": "%5EGSPC",
}

// Classification は銘柄シンボルの判定結果です。
// Original には入力シンボルがそのまま保持され、表示用に復元できます。
type Classification struct {
	Original string
	Target   string
	Kind     Kind

	IsDomesticEquity bool
	IsDomesticIndex  bool
	IsUSIndex        bool
	IsDJI            bool
	IsNASDAQ         bool
	IsSP500          bool
	IsFX             bool
}

// Classify は銘柄シンボルを判定し、取得先サイト用のシンボルに変換します。
// どの入力に対しても必ず1つの結果を返します。
func Classify(symbol string) Classification {
	s := strings.TrimSpace(symbol)
	c := Classification{Original: symbol, Target: s, Kind: KindOther}

	switch {
	case s == "^N225":
		c.Target = nikkeiTarget
		c.Kind = KindDomesticIndex
		c.IsDomesticIndex = true
	case domesticCodePattern.MatchString(s):
		c.Target = s + DomesticMarketSuffix
		c.Kind = KindDomesticEquity
		c.IsDomesticEquity = true
	case usIndices[s] != "":
		c.Target = usIndices[s]
		c.Kind = KindUSIndex
		c.IsUSIndex = true
		switch s {
		case "^DJI":
			c.IsDJI = true
		case "^IXIC":
			c.IsNASDAQ = true
		case "^GSPC":
			c.IsSP500 = true
		}
	default:
		if m := fxPattern.FindStringSubmatch(strings.ToUpper(s)); m != nil {
			c.Target = m[1] + fxSuffix
			c.Kind = KindFX
			c.IsFX = true
		}
	}
	return c
}

// Display は表示用の元のシンボルを返します。
func (c Classification) Display() string {
	return c.Original
}

// ChartSymbol はJSONチャートAPI用のシンボルを返します。
func (c Classification) ChartSymbol() string {
	s := strings.TrimSpace(c.Original)
	switch c.Kind {
	case KindDomesticEquity:
		return s + DomesticMarketSuffix
	case KindFX:
		return strings.TrimSuffix(c.Target, fxSuffix) + chartFXSuffix
	}
	return s
}
