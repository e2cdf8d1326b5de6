package trivia

import (
	"fmt"
	"math/rand/v2"
)

// Word lists for joining codes, "{left}-{right}" like "brave-turing"
var leftNames = []string{
	"admiring", "adoring", "agitated", "amazing", "angry", "awesome", "blissful",
	"bold", "boring", "brave", "busy", "charming", "clever", "cool", "compassionate",
	"competent", "confident", "crazy", "dazzling", "determined", "distracted",
	"dreamy", "eager", "ecstatic", "elastic", "elated", "elegant", "eloquent",
	"epic", "fervent", "festive", "flamboyant", "focused", "friendly", "frosty",
	"gallant", "gifted", "goofy", "gracious", "happy", "hardcore", "heuristic",
	"hopeful", "hungry", "infallible", "inspiring", "jolly", "jovial", "keen",
	"kind", "laughing", "loving", "lucid", "magical", "modest", "musing",
	"mystifying", "naughty", "nervous", "nice", "nifty", "nostalgic", "objective",
	"optimistic", "peaceful", "pedantic", "pensive", "practical", "priceless",
	"quirky", "quizzical", "relaxed", "reverent", "romantic", "sad", "serene",
	"sharp", "silly", "sleepy", "stoic", "stupefied", "suspicious", "sweet",
	"tender", "thirsty", "trusting", "upbeat", "vibrant", "vigilant", "vigorous",
	"wizardly", "wonderful", "xenodochial", "youthful", "zealous", "zen",
}

var rightNames = []string{
	"albattani", "allen", "almeida", "archimedes", "ardinghelli", "aryabhata",
	"austin", "babbage", "banach", "bardeen", "bartik", "bassi", "bell", "bhabha",
	"blackwell", "bohr", "booth", "borg", "bose", "boyd", "brahmagupta", "brattain",
	"brown", "carson", "chandrasekhar", "clarke", "colden", "cori", "cray",
	"curie", "darwin", "davinci", "dijkstra", "dubinsky", "easley", "edison",
	"einstein", "elion", "engelbart", "euclid", "euler", "fermat", "fermi",
	"feynman", "franklin", "galileo", "gates", "goldberg", "goldstine",
	"goldwasser", "golick", "goodall", "haibt", "hamilton", "hawking",
	"heisenberg", "hermann", "heyrovsky", "hodgkin", "hoover", "hopper", "hugle",
	"hypatia", "jang", "jennings", "jepsen", "joliot", "jones", "kalam",
	"kare", "keller", "kepler", "khorana", "kilby", "kirch", "knuth",
	"kowalevski", "lalande", "lamarr", "lamport", "leakey", "leavitt", "lewin",
	"lichterman", "liskov", "lovelace", "lumiere", "mahavira", "mayer", "mccarthy",
	"mcclintock", "mclean", "mcnulty", "meitner", "mendel", "minsky", "mirzakhani",
	"morse", "murdock", "neumann", "newton", "nightingale", "nobel", "noether",
	"northcutt", "noyce", "panini", "pare", "pasteur", "payne", "perlman", "pike",
	"poincare", "poitras", "ptolemy", "raman", "ramanujan", "ride", "ritchie",
	"roentgen", "rosalind", "saha", "sammet", "shannon", "shaw", "shirley",
	"shockley", "sinoussi", "snyder", "spence", "stallman", "stonebraker",
	"swanson", "swartz", "swirles", "tesla", "thompson", "torvalds", "turing",
	"varahamihira", "visvesvaraya", "volhard", "wescoff", "williams", "wilson",
	"wing", "wozniak", "wright", "yalow", "yonath",
}

// GenerateJoiningCode returns a random two-word slug. Uniqueness is checked
// by the caller against the session store and the match records.
func GenerateJoiningCode() string {
	left := leftNames[rand.IntN(len(leftNames))]
	right := rightNames[rand.IntN(len(rightNames))]
	return fmt.Sprintf("%s-%s", left, right)
}
