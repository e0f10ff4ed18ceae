package entity

import "strconv"

// IndustryRange maps a TSE 33-sector classification to the security codes
// its members usually carry. The ranges are a rough guideline: codes are not
// assigned strictly by sector, so boundary mismatches are expected.
type IndustryRange struct {
	Code string
	Name string
	Min  int
	Max  int
}

// Contains reports whether code falls in the inclusive range.
func (r IndustryRange) Contains(code int) bool {
	return code >= r.Min && code <= r.Max
}

// IndustryRanges lists the 33 sectors in classification order.
var IndustryRanges = []IndustryRange{
	{"0050", "水産・農林業", 1300, 1399},
	{"1050", "鉱業", 1500, 1699},
	{"2050", "建設業", 1700, 1999},
	{"3050", "食料品", 2000, 2999},
	{"3100", "繊維製品", 3000, 3599},
	{"3150", "パルプ・紙", 3700, 3999},
	{"3200", "化学", 4000, 4999},
	{"3250", "医薬品", 4500, 4599},
	{"3300", "石油・石炭製品", 5000, 5099},
	{"3350", "ゴム製品", 5100, 5199},
	{"3400", "ガラス・土石製品", 5200, 5399},
	{"3450", "鉄鋼", 5400, 5599},
	{"3500", "非鉄金属", 5700, 5799},
	{"3550", "金属製品", 5800, 5999},
	{"3600", "機械", 6000, 6499},
	{"3650", "電気機器", 6500, 6999},
	{"3700", "輸送用機器", 7000, 7299},
	{"3750", "精密機器", 7700, 7799},
	{"3800", "その他製品", 7800, 7999},
	{"4050", "電気・ガス業", 9500, 9599},
	{"5050", "陸運業", 9000, 9099},
	{"5100", "海運業", 9100, 9199},
	{"5150", "空運業", 9200, 9299},
	{"5200", "倉庫・運輸関連業", 9300, 9399},
	{"5250", "情報・通信業", 9400, 9499},
	{"6050", "卸売業", 8000, 8099},
	{"6100", "小売業", 8200, 8299},
	{"7050", "銀行業", 8300, 8399},
	{"7100", "証券、商品先物取引業", 8600, 8699},
	{"7150", "保険業", 8700, 8799},
	{"7200", "その他金融業", 8500, 8599},
	{"8050", "不動産業", 8800, 8899},
	{"9050", "サービス業", 9600, 9999},
}

// LookupIndustry returns the range for a sector code.
func LookupIndustry(code string) (IndustryRange, bool) {
	for _, r := range IndustryRanges {
		if r.Code == code {
			return r, true
		}
	}
	return IndustryRange{}, false
}

// MatchesIndustry reports whether a security code belongs to industry.
// An empty or unknown industry matches everything. A code inside the selected
// range matches; a code inside another sector's range does not; a code outside
// every known range matches.
func MatchesIndustry(code, industry string) bool {
	if industry == "" {
		return true
	}
	selected, ok := LookupIndustry(industry)
	if !ok {
		return true
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return true
	}
	if selected.Contains(n) {
		return true
	}
	for _, r := range IndustryRanges {
		if r.Contains(n) {
			return false
		}
	}
	return true
}
