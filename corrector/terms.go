package corrector

// contractions lists apostrophe-joined tokens the misspelling detector must
// never flag, keyed by lowercase surface form.
var contractions = map[string]bool{
	"aren't": true, "can't": true, "couldn't": true, "didn't": true,
	"doesn't": true, "don't": true, "hadn't": true, "hasn't": true,
	"haven't": true, "he's": true, "i'd": true, "i'll": true, "i'm": true,
	"i've": true, "isn't": true, "it's": true, "let's": true, "o'clock": true,
	"she's": true, "shouldn't": true, "that's": true, "there's": true,
	"they're": true, "they've": true, "wasn't": true, "we're": true,
	"we've": true, "weren't": true, "what's": true, "who's": true,
	"won't": true, "wouldn't": true, "you'll": true, "you're": true,
	"you've": true,
}

// DefaultProtectedTerms is the curated starter set of lender names,
// regulators and domain abbreviations that must never be "corrected".
// Deployments extend it via a protected-term file or the Redis store.
var DefaultProtectedTerms = []string{
	"hsbc",
	"natwest",
	"barclays",
	"santander",
	"halifax",
	"nationwide",
	"lloyds",
	"tsb",
	"hmrc",
	"fca",
	"plc",
	"llp",
	"apr",
	"aprc",
	"ltv",
	"erc",
	"svr",
	"bacs",
	"chaps",
	"iban",
	"remortgage",
	"leasehold",
	"freehold",
	"conveyancer",
}
