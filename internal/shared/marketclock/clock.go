// Package marketclock は東京証券取引所の取引時間に関する時刻計算を提供します。
package marketclock

import (
	"time"
)

// Session は取引時間帯の区分です。
type Session string

const (
	SessionWeekend   Session = "weekend"
	SessionPreMarket Session = "pre_market"
	SessionMorning   Session = "morning"
	SessionLunch     Session = "lunch"
	SessionAfternoon Session = "afternoon"
	SessionClosed    Session = "closed"
)

// Status はある時刻における市場の状態を表します。
type Status struct {
	IsOpen  bool
	Session Session
	Label   string
}

// preOpenHour は寄り前の板が公開される時刻（日本時間）です。
const preOpenHour = 8

var tokyo = loadTokyo()

func loadTokyo() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Tokyo は日本時間のロケーションを返します。
func Tokyo() *time.Location {
	return tokyo
}

// StatusAt は指定時刻（日本時間に変換して評価）の市場状態を返します。
func StatusAt(t time.Time) Status {
	now := t.In(tokyo)
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return Status{IsOpen: false, Session: SessionWeekend, Label: "休場（週末）"}
	}

	minutes := now.Hour()*60 + now.Minute()
	switch {
	case minutes >= 9*60 && minutes < 11*60+30:
		return Status{IsOpen: true, Session: SessionMorning, Label: "取引中（前場）"}
	case minutes >= 11*60+30 && minutes < 12*60+30:
		return Status{IsOpen: false, Session: SessionLunch, Label: "昼休み（前場終値）"}
	case minutes >= 12*60+30 && minutes < 15*60:
		return Status{IsOpen: true, Session: SessionAfternoon, Label: "取引中（後場）"}
	case minutes >= 15*60:
		return Status{IsOpen: false, Session: SessionClosed, Label: "市場終了"}
	}
	return Status{IsOpen: false, Session: SessionPreMarket, Label: "市場開始前"}
}

// BeforePreOpen は指定時刻が当日の寄り前公開（午前8時）より前かどうかを返します。
func BeforePreOpen(t time.Time) bool {
	return t.In(tokyo).Hour() < preOpenHour
}
