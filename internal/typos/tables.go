package typos

// commonTypos maps frequent words to the misspellings real typists produce
// for them. A whole-word slip types one of these, then gets noticed and
// wiped.
var commonTypos = map[string][]string{
	"the":     {"teh", "hte", "th", "tje", "tue"},
	"and":     {"adn", "nad", "anf", "ans"},
	"that":    {"taht", "htat", "tath", "thta"},
	"have":    {"ahve", "hvae", "hav", "haev"},
	"with":    {"wiht", "wtih", "wth", "iwth"},
	"this":    {"tihs", "thsi", "htis", "tis"},
	"from":    {"form", "fomr", "fro", "rfom"},
	"they":    {"tehy", "thye", "htey", "tey"},
	"been":    {"eben", "bene", "ben", "beem"},
	"their":   {"thier", "tehir", "theri", "ther"},
	"which":   {"whcih", "whihc", "wich", "wihch"},
	"would":   {"woudl", "wuold", "woud", "owuld"},
	"there":   {"tehre", "htere", "ther", "theer"},
	"about":   {"abotu", "abuot", "abut", "baout"},
	"just":    {"jsut", "just", "juts", "jusr"},
	"like":    {"liek", "likr", "lik", "lkie"},
	"what":    {"waht", "wath", "whta", "wat"},
	"when":    {"wehn", "whn", "whne", "hwen"},
	"your":    {"yuor", "yoru", "yor", "yoir"},
	"some":    {"soem", "smoe", "soe", "osme"},
	"them":    {"tehm", "thme", "tem", "htem"},
	"than":    {"tahn", "htan", "thn", "tahn"},
	"other":   {"ohter", "otehr", "oter", "toher"},
	"time":    {"tiem", "tmie", "itme", "tim"},
	"very":    {"vrey", "vey", "ver", "evry"},
	"also":    {"aslo", "laso", "als", "aldo"},
	"make":    {"maek", "mkae", "amke", "mak"},
	"know":    {"knwo", "konw", "kno", "nkow"},
	"people":  {"peopel", "poeple", "peolpe", "peopl"},
	"because": {"becasue", "becuase", "becaus", "beacuse"},
	"could":   {"cuold", "coudl", "coud", "colud"},
	"should":  {"shoudl", "shuold", "shoud", "sholud"},
	"think":   {"thnik", "thnk", "htink", "thiink"},
	"after":   {"aftre", "atfer", "afer", "aftr"},
	"work":    {"wokr", "wrk", "owrk", "wrok"},
	"first":   {"frist", "fisrt", "firt", "firsr"},
	"well":    {"wlel", "wel", "weel", "wll"},
	"even":    {"eevn", "evne", "ven", "eevn"},
	"good":    {"godo", "god", "goood", "ogod"},
	"much":    {"mcuh", "muhc", "mch", "umch"},
	"where":   {"wehre", "wheer", "wher", "hwere"},
	"right":   {"rihgt", "rigth", "rgiht", "riight"},
	"still":   {"sitll", "stil", "stll", "tsill"},
	"between": {"bewteen", "betwen", "betwene", "bteween"},
	"before":  {"beofre", "befroe", "befor", "bfore"},
	"through": {"thorugh", "throught", "throuhg", "trhough"},
	"great":   {"gerat", "graet", "gret", "grear"},
	"being":   {"bieng", "beng", "beign", "beig"},
	"world":   {"wrold", "wolrd", "worl", "wrld"},
	"these":   {"thees", "tehse", "thse", "htese"},
	"those":   {"thoes", "htose", "thoese", "thsoe"},
	"does":    {"dose", "deos", "doe", "odes"},
	"going":   {"giong", "goign", "gong", "goig"},
	"take":    {"taek", "tkae", "tka", "atke"},
	"want":    {"wnat", "watn", "wnt", "awnt"},
	"same":    {"saem", "smae", "sam", "asme"},
	"each":    {"eahc", "aech", "ech", "eahc"},
	"come":    {"coem", "cmoe", "com", "ocme"},
	"many":    {"mnay", "mny", "amny", "mayn"},
	"then":    {"tehn", "thn", "thne", "hten"},
	"only":    {"olny", "onyl", "noly", "onl"},
	"over":    {"oevr", "voer", "ovr", "ovre"},
	"more":    {"moer", "mroe", "mor", "omre"},
	"such":    {"scuh", "shcu", "suhc", "uscb"},
	"into":    {"itno", "inot", "nito", "ino"},
	"year":    {"yaer", "yer", "yera", "eyar"},
	"most":    {"msot", "mos", "omst", "mots"},
	"find":    {"fnd", "fidn", "fnid", "ifnd"},
	"here":    {"heer", "hre", "ehre", "herr"},
	"thing":   {"thign", "thnig", "ting", "htign"},
	"long":    {"lnog", "logn", "lon", "olng"},
	"look":    {"loko", "lok", "loook", "olok"},
	"down":    {"dwon", "donw", "don", "odwn"},
	"life":    {"lief", "lfie", "lif", "ilfe"},
	"never":   {"nver", "neevr", "nevr", "enver"},
	"need":    {"nede", "ned", "nee", "ened"},
	"will":    {"wll", "iwll", "wil", "wlil"},
	"home":    {"hmoe", "hom", "hoem", "ohme"},
	"back":    {"bakc", "bck", "abck", "bcak"},
	"give":    {"gvie", "giev", "giv", "igve"},
	"help":    {"hlep", "hep", "ehlp", "hepl"},
	"hand":    {"hnad", "hnd", "ahnd", "hadn"},
	"high":    {"hgih", "hih", "ihgh", "hig"},
	"keep":    {"kepe", "kep", "keeep", "ekep"},
	"last":    {"lsat", "las", "alst", "lasr"},
	"name":    {"naem", "nmae", "nam", "anme"},
	"play":    {"paly", "ply", "pla", "lpay"},
	"small":   {"smlal", "smal", "smll", "samll"},
	"every":   {"eevry", "evrey", "evry", "evey"},
	"again":   {"agian", "agin", "aagin", "gaain"},
	"change":  {"chnage", "chagne", "chang", "cahnge"},
	"point":   {"piont", "ponit", "pint", "poin"},
	"place":   {"palce", "plcae", "plac", "place"},
	"under":   {"uner", "udner", "undr", "nuder"},
	"while":   {"whiel", "whlie", "whil", "hwile"},
}

// confusionPairs are letters typists swap from memory rather than from
// finger slips: visually or kinesthetically similar keys.
var confusionPairs = map[rune]rune{
	'b': 'v', 'v': 'b', 'n': 'm', 'm': 'n',
	'd': 'f', 'f': 'd', 'g': 'h', 'h': 'g',
	'i': 'o', 'o': 'i', 'e': 'r', 'r': 'e',
	'c': 'x', 'x': 'c',
}

// fallbackLetters feeds slips for characters with no mapped neighborhood.
const fallbackLetters = "abcdefghijklmnopqrstuvwxyz"
