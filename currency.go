package stripekit

import "encoding/json"

// Currency is a three-letter ISO 4217 currency code in lowercase. Unlike the
// status enums Stripe grows over time, the currency set is closed: a code
// outside the table below fails decoding instead of being preserved.
type Currency string

const (
	CurrencyAED Currency = "aed"
	CurrencyAFN Currency = "afn"
	CurrencyALL Currency = "all"
	CurrencyAMD Currency = "amd"
	CurrencyANG Currency = "ang"
	CurrencyAOA Currency = "aoa"
	CurrencyARS Currency = "ars"
	CurrencyAUD Currency = "aud"
	CurrencyAWG Currency = "awg"
	CurrencyAZN Currency = "azn"
	CurrencyBAM Currency = "bam"
	CurrencyBBD Currency = "bbd"
	CurrencyBDT Currency = "bdt"
	CurrencyBGN Currency = "bgn"
	CurrencyBHD Currency = "bhd"
	CurrencyBIF Currency = "bif"
	CurrencyBMD Currency = "bmd"
	CurrencyBND Currency = "bnd"
	CurrencyBOB Currency = "bob"
	CurrencyBRL Currency = "brl"
	CurrencyBSD Currency = "bsd"
	CurrencyBWP Currency = "bwp"
	CurrencyBYN Currency = "byn"
	CurrencyBZD Currency = "bzd"
	CurrencyCAD Currency = "cad"
	CurrencyCDF Currency = "cdf"
	CurrencyCHF Currency = "chf"
	CurrencyCLP Currency = "clp"
	CurrencyCNY Currency = "cny"
	CurrencyCOP Currency = "cop"
	CurrencyCRC Currency = "crc"
	CurrencyCVE Currency = "cve"
	CurrencyCZK Currency = "czk"
	CurrencyDJF Currency = "djf"
	CurrencyDKK Currency = "dkk"
	CurrencyDOP Currency = "dop"
	CurrencyDZD Currency = "dzd"
	CurrencyEGP Currency = "egp"
	CurrencyETB Currency = "etb"
	CurrencyEUR Currency = "eur"
	CurrencyFJD Currency = "fjd"
	CurrencyFKP Currency = "fkp"
	CurrencyGBP Currency = "gbp"
	CurrencyGEL Currency = "gel"
	CurrencyGIP Currency = "gip"
	CurrencyGMD Currency = "gmd"
	CurrencyGNF Currency = "gnf"
	CurrencyGTQ Currency = "gtq"
	CurrencyGYD Currency = "gyd"
	CurrencyHKD Currency = "hkd"
	CurrencyHNL Currency = "hnl"
	CurrencyHRK Currency = "hrk"
	CurrencyHTG Currency = "htg"
	CurrencyHUF Currency = "huf"
	CurrencyIDR Currency = "idr"
	CurrencyILS Currency = "ils"
	CurrencyINR Currency = "inr"
	CurrencyISK Currency = "isk"
	CurrencyJMD Currency = "jmd"
	CurrencyJOD Currency = "jod"
	CurrencyJPY Currency = "jpy"
	CurrencyKES Currency = "kes"
	CurrencyKGS Currency = "kgs"
	CurrencyKHR Currency = "khr"
	CurrencyKMF Currency = "kmf"
	CurrencyKRW Currency = "krw"
	CurrencyKWD Currency = "kwd"
	CurrencyKYD Currency = "kyd"
	CurrencyKZT Currency = "kzt"
	CurrencyLAK Currency = "lak"
	CurrencyLBP Currency = "lbp"
	CurrencyLKR Currency = "lkr"
	CurrencyLRD Currency = "lrd"
	CurrencyLSL Currency = "lsl"
	CurrencyMAD Currency = "mad"
	CurrencyMDL Currency = "mdl"
	CurrencyMGA Currency = "mga"
	CurrencyMKD Currency = "mkd"
	CurrencyMMK Currency = "mmk"
	CurrencyMNT Currency = "mnt"
	CurrencyMOP Currency = "mop"
	CurrencyMUR Currency = "mur"
	CurrencyMVR Currency = "mvr"
	CurrencyMWK Currency = "mwk"
	CurrencyMXN Currency = "mxn"
	CurrencyMYR Currency = "myr"
	CurrencyMZN Currency = "mzn"
	CurrencyNAD Currency = "nad"
	CurrencyNGN Currency = "ngn"
	CurrencyNIO Currency = "nio"
	CurrencyNOK Currency = "nok"
	CurrencyNPR Currency = "npr"
	CurrencyNZD Currency = "nzd"
	CurrencyOMR Currency = "omr"
	CurrencyPAB Currency = "pab"
	CurrencyPEN Currency = "pen"
	CurrencyPGK Currency = "pgk"
	CurrencyPHP Currency = "php"
	CurrencyPKR Currency = "pkr"
	CurrencyPLN Currency = "pln"
	CurrencyPYG Currency = "pyg"
	CurrencyQAR Currency = "qar"
	CurrencyRON Currency = "ron"
	CurrencyRSD Currency = "rsd"
	CurrencyRUB Currency = "rub"
	CurrencyRWF Currency = "rwf"
	CurrencySAR Currency = "sar"
	CurrencySBD Currency = "sbd"
	CurrencySCR Currency = "scr"
	CurrencySEK Currency = "sek"
	CurrencySGD Currency = "sgd"
	CurrencySHP Currency = "shp"
	CurrencySLE Currency = "sle"
	CurrencySOS Currency = "sos"
	CurrencySRD Currency = "srd"
	CurrencySTD Currency = "std"
	CurrencySZL Currency = "szl"
	CurrencyTHB Currency = "thb"
	CurrencyTJS Currency = "tjs"
	CurrencyTND Currency = "tnd"
	CurrencyTOP Currency = "top"
	CurrencyTRY Currency = "try"
	CurrencyTTD Currency = "ttd"
	CurrencyTWD Currency = "twd"
	CurrencyTZS Currency = "tzs"
	CurrencyUAH Currency = "uah"
	CurrencyUGX Currency = "ugx"
	CurrencyUSD Currency = "usd"
	CurrencyUYU Currency = "uyu"
	CurrencyUZS Currency = "uzs"
	CurrencyVND Currency = "vnd"
	CurrencyVUV Currency = "vuv"
	CurrencyWST Currency = "wst"
	CurrencyXAF Currency = "xaf"
	CurrencyXCD Currency = "xcd"
	CurrencyXOF Currency = "xof"
	CurrencyXPF Currency = "xpf"
	CurrencyYER Currency = "yer"
	CurrencyZAR Currency = "zar"
	CurrencyZMW Currency = "zmw"
)

var currencies = map[Currency]struct{}{
	CurrencyAED: {}, CurrencyAFN: {}, CurrencyALL: {}, CurrencyAMD: {},
	CurrencyANG: {}, CurrencyAOA: {}, CurrencyARS: {}, CurrencyAUD: {},
	CurrencyAWG: {}, CurrencyAZN: {}, CurrencyBAM: {}, CurrencyBBD: {},
	CurrencyBDT: {}, CurrencyBGN: {}, CurrencyBHD: {}, CurrencyBIF: {},
	CurrencyBMD: {}, CurrencyBND: {}, CurrencyBOB: {}, CurrencyBRL: {},
	CurrencyBSD: {}, CurrencyBWP: {}, CurrencyBYN: {}, CurrencyBZD: {},
	CurrencyCAD: {}, CurrencyCDF: {}, CurrencyCHF: {}, CurrencyCLP: {},
	CurrencyCNY: {}, CurrencyCOP: {}, CurrencyCRC: {}, CurrencyCVE: {},
	CurrencyCZK: {}, CurrencyDJF: {}, CurrencyDKK: {}, CurrencyDOP: {},
	CurrencyDZD: {}, CurrencyEGP: {}, CurrencyETB: {}, CurrencyEUR: {},
	CurrencyFJD: {}, CurrencyFKP: {}, CurrencyGBP: {}, CurrencyGEL: {},
	CurrencyGIP: {}, CurrencyGMD: {}, CurrencyGNF: {}, CurrencyGTQ: {},
	CurrencyGYD: {}, CurrencyHKD: {}, CurrencyHNL: {}, CurrencyHRK: {},
	CurrencyHTG: {}, CurrencyHUF: {}, CurrencyIDR: {}, CurrencyILS: {},
	CurrencyINR: {}, CurrencyISK: {}, CurrencyJMD: {}, CurrencyJOD: {},
	CurrencyJPY: {}, CurrencyKES: {}, CurrencyKGS: {}, CurrencyKHR: {},
	CurrencyKMF: {}, CurrencyKRW: {}, CurrencyKWD: {}, CurrencyKYD: {},
	CurrencyKZT: {}, CurrencyLAK: {}, CurrencyLBP: {}, CurrencyLKR: {},
	CurrencyLRD: {}, CurrencyLSL: {}, CurrencyMAD: {}, CurrencyMDL: {},
	CurrencyMGA: {}, CurrencyMKD: {}, CurrencyMMK: {}, CurrencyMNT: {},
	CurrencyMOP: {}, CurrencyMUR: {}, CurrencyMVR: {}, CurrencyMWK: {},
	CurrencyMXN: {}, CurrencyMYR: {}, CurrencyMZN: {}, CurrencyNAD: {},
	CurrencyNGN: {}, CurrencyNIO: {}, CurrencyNOK: {}, CurrencyNPR: {},
	CurrencyNZD: {}, CurrencyOMR: {}, CurrencyPAB: {}, CurrencyPEN: {},
	CurrencyPGK: {}, CurrencyPHP: {}, CurrencyPKR: {}, CurrencyPLN: {},
	CurrencyPYG: {}, CurrencyQAR: {}, CurrencyRON: {}, CurrencyRSD: {},
	CurrencyRUB: {}, CurrencyRWF: {}, CurrencySAR: {}, CurrencySBD: {},
	CurrencySCR: {}, CurrencySEK: {}, CurrencySGD: {}, CurrencySHP: {},
	CurrencySLE: {}, CurrencySOS: {}, CurrencySRD: {}, CurrencySTD: {},
	CurrencySZL: {}, CurrencyTHB: {}, CurrencyTJS: {}, CurrencyTND: {},
	CurrencyTOP: {}, CurrencyTRY: {}, CurrencyTTD: {}, CurrencyTWD: {},
	CurrencyTZS: {}, CurrencyUAH: {}, CurrencyUGX: {}, CurrencyUSD: {},
	CurrencyUYU: {}, CurrencyUZS: {}, CurrencyVND: {}, CurrencyVUV: {},
	CurrencyWST: {}, CurrencyXAF: {}, CurrencyXCD: {}, CurrencyXOF: {},
	CurrencyXPF: {}, CurrencyYER: {}, CurrencyZAR: {}, CurrencyZMW: {},
}

// Valid reports whether the currency is in the ISO 4217 table.
func (c Currency) Valid() bool {
	_, ok := currencies[c]
	return ok
}

func (c *Currency) UnmarshalJSON(b []byte) error {
	var s string

	if err := json.Unmarshal(b, &s); err != nil {
		return errType("currency", "string")
	}

	cur := Currency(s)

	if !cur.Valid() {
		return errType("currency", "ISO 4217 code, got "+s)
	}
	*c = cur
	return nil
}
