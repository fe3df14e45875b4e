package lunchbox

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const perishSpeedKey = "Stored food perish speed: %sx"

func init() {
	message.SetString(language.English, perishSpeedKey, "Stored food perish speed: %sx")
	message.SetString(language.Japanese, perishSpeedKey, "保存食品の腐敗速度: %s倍")
}

// HeldItemInfo returns the descriptive line shown on a lunchbox item.
func (b *Behavior) HeldItemInfo() string {
	tag := b.lang
	if tag == language.Und {
		tag = language.English
	}
	rounded := math.Round(b.spoilMul*100) / 100
	return message.NewPrinter(tag).Sprintf(perishSpeedKey, strconv.FormatFloat(rounded, 'f', -1, 64))
}
