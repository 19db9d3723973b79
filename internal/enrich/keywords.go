package enrich

import (
	"regexp"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
)

// speciesKeywords drive species detection. Keywords are matched as
// lowercase substrings over filename + text; weights grow with length
// so specific terms dominate generic ones.
var speciesKeywords = map[domain.Species][]string{
	domain.SpeciesBroiler: {
		"broiler", "poulet de chair", "ross", "cobb", "hubbard",
		"poulet standard", "griller", "chair",
	},
	domain.SpeciesLayer: {
		"layer", "pondeuse", "ponte", "lohmann", "isa brown", "hy-line",
		"novogen", "laying hen", "egg production", "oeuf",
	},
	domain.SpeciesBreeder: {
		"breeder", "reproducteur", "reproductrice", "parent stock",
		"parentaux", "hatching egg",
	},
	domain.SpeciesDuck: {
		"duck", "canard", "pekin", "barbarie", "mulard",
	},
	domain.SpeciesTurkey: {
		"turkey", "dinde", "dindon", "hybrid converter",
	},
}

// speciesOrder fixes iteration order so score ties resolve the same
// way on every run.
var speciesOrder = []domain.Species{
	domain.SpeciesBroiler, domain.SpeciesLayer, domain.SpeciesBreeder,
	domain.SpeciesDuck, domain.SpeciesTurkey,
}

// domainKeywords drive technical-domain detection.
var domainKeywords = map[domain.Domain][]string{
	domain.DomainPerformance: {
		"poids", "weight", "gain", "croissance", "growth", "fcr",
		"indice de consommation", "body weight", "performance",
		"objectifs", "targets", "gmq", "uniformity",
	},
	domain.DomainNutrition: {
		"aliment", "feed", "nutrition", "proteine", "protéine", "protein",
		"energie", "énergie", "energy", "lysine", "calcium", "phosphore",
		"ration", "amino acid",
	},
	domain.DomainHealth: {
		"sante", "santé", "health", "maladie", "disease", "vaccin", "vaccine",
		"mortalite", "mortalité", "mortality", "coccidiose", "newcastle", "gumboro",
		"traitement", "treatment",
	},
	domain.DomainEnvironment: {
		"temperature", "température", "ventilation", "ambiance", "humidite",
		"humidité", "humidity", "lumiere", "lumière", "lighting", "densite",
		"densité", "density", "litiere", "litière", "litter",
	},
	domain.DomainBiosecurity: {
		"biosecurite", "biosécurité", "biosecurity", "desinfection", "désinfection", "disinfection",
		"nettoyage", "sanitaire", "quarantaine", "pest control",
	},
	domain.DomainGenetics: {
		"genetique", "génétique", "genetics", "souche", "strain", "lignee",
		"lignée", "selection", "sélection", "heritability", "breeding value",
	},
	domain.DomainWelfare: {
		"bien-etre", "bien-être", "welfare", "comportement", "behaviour", "picage",
		"enrichment", "boiterie", "lameness",
	},
}

// domainOrder fixes iteration order for deterministic tie-breaks.
var domainOrder = []domain.Domain{
	domain.DomainPerformance, domain.DomainNutrition, domain.DomainHealth,
	domain.DomainEnvironment, domain.DomainBiosecurity, domain.DomainGenetics,
	domain.DomainWelfare,
}

// strainPattern maps a regex to a canonical strain name. $1 carries
// the numeric or variant suffix when the pattern captures one.
type strainPattern struct {
	re     *regexp.Regexp
	format string
}

// strainPatterns are tried in order; the first match wins.
var strainPatterns = []strainPattern{
	{regexp.MustCompile(`ross\s*(\d{3})`), "Ross $1"},
	{regexp.MustCompile(`cobb\s*(\d{3})`), "Cobb $1"},
	{regexp.MustCompile(`hubbard\s*(classic|flex|ja\d*)`), "Hubbard $1"},
	{regexp.MustCompile(`lohmann\s*(brown|white|lsl)`), "Lohmann $1"},
	{regexp.MustCompile(`isa\s*(brown|white)`), "ISA $1"},
	{regexp.MustCompile(`hy[-\s]?line\s*(brown|w-?36|w-?80)`), "Hy-Line $1"},
	{regexp.MustCompile(`novogen\s*(brown|white)`), "Novogen $1"},
}

// strainFallbacks are exact long keywords used when no pattern matched.
var strainFallbacks = map[string]string{
	"lohmann": "Lohmann",
	"novogen": "Novogen",
	"hubbard": "Hubbard",
	"dekalb":  "Dekalb",
	"shaver":  "Shaver",
}

// phaseKeywords drive production-phase detection by raw match count.
var phaseKeywords = map[domain.ProductionPhase][]string{
	domain.PhaseStarter:     {"starter", "demarrage", "démarrage", "0-10 j", "0-10 days"},
	domain.PhaseGrower:      {"grower", "croissance", "11-24 j"},
	domain.PhaseFinisher:    {"finisher", "finition", "retrait"},
	domain.PhasePreLay:      {"pre-lay", "prelay", "pre-ponte", "pré-ponte"},
	domain.PhaseLayerPhase1: {"phase 1", "pic de ponte", "peak production"},
	domain.PhaseLayerPhase2: {"phase 2", "fin de ponte", "late lay"},
}

// phaseOrder fixes iteration order for deterministic tie-breaks.
var phaseOrder = []domain.ProductionPhase{
	domain.PhaseStarter, domain.PhaseGrower, domain.PhaseFinisher,
	domain.PhasePreLay, domain.PhaseLayerPhase1, domain.PhaseLayerPhase2,
}

// strainFallbackOrder fixes iteration order over strainFallbacks.
var strainFallbackOrder = []string{"lohmann", "novogen", "hubbard", "dekalb", "shaver"}

// languageOrder fixes iteration order for deterministic tie-breaks.
var languageOrder = []domain.Language{domain.LanguageFR, domain.LanguageES, domain.LanguageDE}

// languageMarkers are diacritic classes that identify a language.
// English has no marker and is the default.
var languageMarkers = map[domain.Language][]rune{
	domain.LanguageFR: {'é', 'è', 'ê', 'à', 'ç', 'ù', 'â', 'î', 'ô', 'û', 'œ'},
	domain.LanguageES: {'ñ', '¿', '¡', 'í', 'ó', 'á'},
	domain.LanguageDE: {'ä', 'ö', 'ü', 'ß'},
}
