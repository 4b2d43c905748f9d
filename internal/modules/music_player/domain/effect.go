package domain

import (
	"fmt"
	"strings"
)

// Effect is a named audio transform applied when a stream is built.
type Effect string

const (
	EffectClear        Effect = "clear"
	EffectChipmunk     Effect = "chipmunk"
	EffectDeep         Effect = "deep"
	EffectVoid         Effect = "void"
	EffectSpaceOdyssey Effect = "space_odyssey"
	EffectDemonic      Effect = "demonic"
	EffectDarkBrandon  Effect = "dark_brandon"
	EffectSchizo       Effect = "schizo"
)

// Effects lists every effect in display order.
var Effects = []Effect{
	EffectClear,
	EffectChipmunk,
	EffectDeep,
	EffectVoid,
	EffectSpaceOdyssey,
	EffectDemonic,
	EffectDarkBrandon,
	EffectSchizo,
}

// ParseEffect converts user input to an Effect.
// The empty string maps to EffectClear.
func ParseEffect(s string) (Effect, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return EffectClear, nil
	}

	for _, e := range Effects {
		if string(e) == s {
			return e, nil
		}
	}

	return EffectClear, fmt.Errorf("%w: %q", ErrUnknownEffect, s)
}

// IsClear reports whether the effect leaves audio untouched.
func (e Effect) IsClear() bool {
	return e == EffectClear || e == ""
}

// String returns the effect tag.
func (e Effect) String() string {
	if e == "" {
		return string(EffectClear)
	}
	return string(e)
}

// DisplayName returns a human-readable name, e.g. "Space Odyssey".
func (e Effect) DisplayName() string {
	words := strings.Split(e.String(), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// FilterRecipe is the ffmpeg audio filter graph for an effect.
// Recipes assume 48 kHz stereo input. An empty recipe means no -af argument.
type FilterRecipe string

// effectRecipes maps every effect to its ffmpeg filter graph.
var effectRecipes = map[Effect]FilterRecipe{
	EffectClear: "",
	// rate doubled, tempo halved: pitch up an octave at the original speed
	EffectChipmunk:     "asetrate=48000*2,aresample=48000,atempo=0.5",
	EffectDeep:         "asetrate=48000*0.75,aresample=48000,atempo=1.3333",
	EffectVoid:         "aecho=0.8:0.88:60|120:0.4|0.3,lowpass=f=1200",
	EffectSpaceOdyssey: "aphaser=in_gain=0.4:out_gain=0.74:delay=3:decay=0.4:speed=0.5:type=t",
	EffectDemonic: "asplit=3[a][b][c];" +
		"[a]asetrate=48000*0.8,aresample=48000,atempo=1.25[lo];" +
		"[b]asetrate=48000*0.7,aresample=48000,atempo=1.4286[lower];" +
		"[c]asetrate=48000*1.05,aresample=48000,atempo=0.9524[hi];" +
		"[lo][lower][hi]amix=inputs=3",
	EffectDarkBrandon: "aphaser=type=s:speed=0.3:decay=0.5,asetrate=48000*0.85,aresample=48000,atempo=1.1765",
	// split the stereo image and join it back with the channels swapped and skewed
	EffectSchizo: "channelsplit=channel_layout=stereo[l][r];" +
		"[l]adelay=250[ld];" +
		"[r][ld]join=inputs=2:channel_layout=stereo",
}

// Recipe returns the ffmpeg filter graph for the effect.
func (e Effect) Recipe() FilterRecipe {
	if e == "" {
		return effectRecipes[EffectClear]
	}
	recipe, ok := effectRecipes[e]
	if !ok {
		return effectRecipes[EffectClear]
	}
	return recipe
}

// HasRecipe reports whether the effect has an entry in the recipe table.
func (e Effect) HasRecipe() bool {
	_, ok := effectRecipes[e]
	return ok
}
