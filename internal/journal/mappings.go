package journal

// Built-in variant table. Keys are lowercased variants, including each
// canonical name's own lowercase form so already-correct names resolve with
// full confidence.
var defaultMappings = map[string]string{
	"neuroimage": "NeuroImage",

	"nat neurosci":        "Nature Neuroscience",
	"nature neuroscience": "Nature Neuroscience",

	"nat rev neurosci":            "Nature Reviews Neuroscience",
	"nature reviews neuroscience": "Nature Reviews Neuroscience",

	"j neurosci":                  "Journal of Neuroscience",
	"journal of neuroscience":     "Journal of Neuroscience",
	"the journal of neuroscience": "Journal of Neuroscience",

	"pnas":               "Proceedings of the National Academy of Sciences",
	"proc natl acad sci": "Proceedings of the National Academy of Sciences",
	"proceedings of the national academy of sciences": "Proceedings of the National Academy of Sciences",

	"jama": "JAMA",

	"n engl j med":                    "New England Journal of Medicine",
	"nejm":                            "New England Journal of Medicine",
	"new england journal of medicine": "New England Journal of Medicine",

	"lancet":     "The Lancet",
	"the lancet": "The Lancet",

	"lancet neurol":        "The Lancet Neurology",
	"the lancet neurology": "The Lancet Neurology",

	"sleep":                  "Sleep",
	"sleep med":              "Sleep Medicine",
	"sleep medicine":         "Sleep Medicine",
	"sleep med rev":          "Sleep Medicine Reviews",
	"sleep medicine reviews": "Sleep Medicine Reviews",
	"sleep med clin":         "Sleep Medicine Clinics",
	"sleep medicine clinics": "Sleep Medicine Clinics",

	"j sleep res":               "Journal of Sleep Research",
	"journal of sleep research": "Journal of Sleep Research",

	"neurology": "Neurology",
	"brain":     "Brain",
	"cortex":    "Cortex",
	"neuron":    "Neuron",
	"cell":      "Cell",
	"science":   "Science",
	"nature":    "Nature",

	"cereb cortex":    "Cerebral Cortex",
	"cerebral cortex": "Cerebral Cortex",

	"neuropsychologia": "Neuropsychologia",

	"neurobiol aging":       "Neurobiology of Aging",
	"neurobiology of aging": "Neurobiology of Aging",

	"alzheimers dement":      "Alzheimer's & Dementia",
	"alzheimer's & dementia": "Alzheimer's & Dementia",

	"j am geriatr soc":                           "Journal of the American Geriatrics Society",
	"journal of the american geriatrics society": "Journal of the American Geriatrics Society",

	"psychol aging":        "Psychology and Aging",
	"psychology and aging": "Psychology and Aging",

	"dev psychol":              "Developmental Psychology",
	"developmental psychology": "Developmental Psychology",

	"front aging neurosci":            "Frontiers in Aging Neuroscience",
	"frontiers in aging neuroscience": "Frontiers in Aging Neuroscience",

	"trends cogn sci":              "Trends in Cognitive Sciences",
	"trends in cognitive sciences": "Trends in Cognitive Sciences",

	"biol psychiatry":                "Biological Psychiatry",
	"biological psychiatry":          "Biological Psychiatry",
	"mol psychiatry":                 "Molecular Psychiatry",
	"molecular psychiatry":           "Molecular Psychiatry",
	"am j psychiatry":                "American Journal of Psychiatry",
	"american journal of psychiatry": "American Journal of Psychiatry",

	"j cogn neurosci":                   "Journal of Cognitive Neuroscience",
	"journal of cognitive neuroscience": "Journal of Cognitive Neuroscience",

	"hum brain mapp":      "Human Brain Mapping",
	"human brain mapping": "Human Brain Mapping",

	"psychol sci":           "Psychological Science",
	"psychological science": "Psychological Science",

	"behav brain res":            "Behavioural Brain Research",
	"behavioural brain research": "Behavioural Brain Research",
}
