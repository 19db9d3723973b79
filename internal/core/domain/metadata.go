package domain

import "fmt"

// ChunkType classifies the structural kind of a chunk's content.
type ChunkType string

// Chunk types. Tables are treated specially throughout the pipeline:
// the chunker keeps them whole and the answer router orders them first.
const (
	ChunkTypeText   ChunkType = "text"
	ChunkTypeTable  ChunkType = "table"
	ChunkTypeImage  ChunkType = "image"
	ChunkTypeFigure ChunkType = "figure"
	ChunkTypeCode   ChunkType = "code"
	ChunkTypeOther  ChunkType = "other"
)

// Valid reports whether the chunk type is a known value.
func (c ChunkType) Valid() bool {
	switch c {
	case ChunkTypeText, ChunkTypeTable, ChunkTypeImage, ChunkTypeFigure, ChunkTypeCode, ChunkTypeOther:
		return true
	}
	return false
}

// Species is the production category of poultry used to route
// queries to a dedicated index.
type Species string

// Known species. SpeciesGlobal names the shared fallback index,
// not a biological category.
const (
	SpeciesBroiler Species = "broiler"
	SpeciesLayer   Species = "layer"
	SpeciesBreeder Species = "breeder"
	SpeciesDuck    Species = "duck"
	SpeciesTurkey  Species = "turkey"
	SpeciesGlobal  Species = "global"
)

// Valid reports whether the species is a known value.
func (s Species) Valid() bool {
	switch s {
	case SpeciesBroiler, SpeciesLayer, SpeciesBreeder, SpeciesDuck, SpeciesTurkey, SpeciesGlobal:
		return true
	}
	return false
}

// ProductionPhase is the rearing phase a chunk's content applies to.
type ProductionPhase string

// Production phases.
const (
	PhaseStarter     ProductionPhase = "starter"
	PhaseGrower      ProductionPhase = "grower"
	PhaseFinisher    ProductionPhase = "finisher"
	PhasePreLay      ProductionPhase = "pre_lay"
	PhaseLayerPhase1 ProductionPhase = "layer_phase1"
	PhaseLayerPhase2 ProductionPhase = "layer_phase2"
)

// Domain is the technical topic a chunk covers.
type Domain string

// Technical domains.
const (
	DomainPerformance Domain = "performance"
	DomainNutrition   Domain = "nutrition"
	DomainHealth      Domain = "health"
	DomainEnvironment Domain = "environment"
	DomainBiosecurity Domain = "biosecurity"
	DomainGenetics    Domain = "genetics"
	DomainWelfare     Domain = "welfare"
)

// Language is the detected document language.
type Language string

// Supported languages. English is the default when no
// language-specific signal is present.
const (
	LanguageFR Language = "fr"
	LanguageEN Language = "en"
	LanguageES Language = "es"
	LanguageDE Language = "de"
)

// ChunkMetadata carries the best-effort classification of a chunk.
//
// Enrichment never guesses: the zero value of an optional field means
// "undetermined", not a default. DomainConfidence is meaningful only
// when Domain is set, and is always bounded in [0, 1].
type ChunkMetadata struct {
	// Source is the path of the file the chunk was extracted from.
	Source string

	// ChunkType classifies the structural kind of the content.
	ChunkType ChunkType

	// Species is the detected production category, empty if undetermined.
	Species Species

	// Strain is the canonical commercial line name (e.g. "Ross 308"),
	// empty if undetermined.
	Strain string

	// Phase is the detected production phase, empty if undetermined.
	Phase ProductionPhase

	// Domain is the detected technical topic, empty if undetermined.
	Domain Domain

	// DomainConfidence scores the Domain detection in [0, 1].
	// Zero when Domain is empty.
	DomainConfidence float64

	// AgeRange is a free-form age span (e.g. "0-10 jours"), empty if
	// undetermined.
	AgeRange string

	// Language is the detected document language, empty if undetermined.
	Language Language

	// ChunkIndex is the ordinal position of the chunk within its source.
	ChunkIndex int

	// Page is the 1-based source page, zero when unknown.
	Page int

	// ChunkStart and ChunkEnd are the byte offsets of the chunk within
	// the extracted text it was sliced from. ChunkLength == ChunkEnd-ChunkStart.
	ChunkStart  int
	ChunkEnd    int
	ChunkLength int
}

// Validate checks the structural invariants of the metadata.
func (m *ChunkMetadata) Validate() error {
	if !m.ChunkType.Valid() {
		return fmt.Errorf("%w: chunk type %q", ErrInvalidInput, m.ChunkType)
	}
	if m.Species != "" && !m.Species.Valid() {
		return fmt.Errorf("%w: species %q", ErrInvalidInput, m.Species)
	}
	if m.DomainConfidence < 0 || m.DomainConfidence > 1 {
		return fmt.Errorf("%w: domain confidence %v out of [0,1]", ErrInvalidInput, m.DomainConfidence)
	}
	if m.Domain == "" && m.DomainConfidence != 0 {
		return fmt.Errorf("%w: domain confidence set without domain", ErrInvalidInput)
	}
	return nil
}
