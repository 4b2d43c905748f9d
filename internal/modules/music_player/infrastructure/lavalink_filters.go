package infrastructure

import (
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

// lavalinkFilters maps every effect to the Lavalink filters approximating
// its ffmpeg recipe. Filters left nil are reset by the player update.
var lavalinkFilters = map[domain.Effect]lavalink.Filters{
	domain.EffectClear: {},
	domain.EffectChipmunk: {
		Timescale: &lavalink.Timescale{Speed: 1, Pitch: 2, Rate: 1},
	},
	domain.EffectDeep: {
		Timescale: &lavalink.Timescale{Speed: 1, Pitch: 0.75, Rate: 1},
	},
	domain.EffectVoid: {
		LowPass:    &lavalink.LowPass{Smoothing: 20},
		ChannelMix: &lavalink.ChannelMix{LeftToLeft: 0.7, LeftToRight: 0.3, RightToLeft: 0.3, RightToRight: 0.7},
	},
	domain.EffectSpaceOdyssey: {
		Vibrato: &lavalink.Vibrato{Frequency: 0.5, Depth: 0.4},
		Tremolo: &lavalink.Tremolo{Frequency: 0.5, Depth: 0.3},
	},
	domain.EffectDemonic: {
		Timescale: &lavalink.Timescale{Speed: 1, Pitch: 0.7, Rate: 1},
		Tremolo:   &lavalink.Tremolo{Frequency: 8, Depth: 0.3},
	},
	domain.EffectDarkBrandon: {
		Timescale: &lavalink.Timescale{Speed: 1, Pitch: 0.85, Rate: 1},
		Vibrato:   &lavalink.Vibrato{Frequency: 0.3, Depth: 0.5},
	},
	domain.EffectSchizo: {
		ChannelMix: &lavalink.ChannelMix{LeftToLeft: 0, LeftToRight: 1, RightToLeft: 1, RightToRight: 0},
		Tremolo:    &lavalink.Tremolo{Frequency: 2, Depth: 0.5},
	},
}

// filtersFor returns the Lavalink filters of the effect.
func filtersFor(effect domain.Effect) lavalink.Filters {
	if filters, ok := lavalinkFilters[effect]; ok {
		return filters
	}
	return lavalinkFilters[domain.EffectClear]
}
