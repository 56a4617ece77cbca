package catalog

import "github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"

// Pattern fragments shared by the built-in groups. Input text is already
// normalized, so every rupee amount is written "INR <digits>".
const (
	num    = `\d[\d,]*(?:\.\d+)?`
	amt    = `INR ?(?P<amount>` + num + `)`
	optAmt = `(?:INR ?)?(?P<amount>` + num + `)`
	mask   = `(?:[\dXx*]*[Xx*]+)?`
	acNum  = mask + `(?P<number>\d{3,})\b`
	ending = `(?:ending\s*(?:with|in)?\s*[:\-]?\s*)?`
	words  = `(?:\s+\S+){0,6}?`
	has    = `(?:has been |have been |is |was |got )?`

	// instrument introduces the wallet or card paid from, as opposed to the
	// payee after "at" or "to".
	instrument = `\b(?:from|via|using|with|through|on)\s+(?:your\s+)?`

	debitVerbs  = `(?:debited|deducted|withdrawn|spent|paid|sent|charged|transferred)`
	creditVerbs = `(?:credited|received|deposited|added|refunded|reversed)`

	upiHandles = `(?:ybl|ibl|axl|okaxis|oksbi|okicici|okhdfcbank|paytm|ptyes|ptsbi|pthdfc|ptaxis|upi|apl|yapl|axisbank|axisb|icici|sbi|hdfcbank|kotak|kmbl|yesbank|fbl|idfcbank|jupiteraxis|slc|freecharge|airtel|waicici|wahdfcbank)`
)

var (
	debit  = model.TxDebit
	credit = model.TxCredit
)

// Builtin returns the built-in group specs. Each call returns a fresh slice.
func Builtin() []GroupSpec {
	return []GroupSpec{
		hdfcBank(),
		iciciBank(),
		sbi(),
		axisBank(),
		kotakBank(),
		fintechCards(),
		creditCards(),
		paytmWallet(),
		amazonPay(),
		payLater(),
		upiChannel(),
		generic(),
	}
}

func hdfcBank() GroupSpec {
	return GroupSpec{
		Name:       "hdfc-bank",
		Kind:       KindBank,
		Rank:       10,
		Keywords:   []string{"HDFC Bank", "HDFCBK", "HDFC"},
		Structures: []string{`\b[A-Z]{2}-HDFCB[KN]\b`},
		Account: []RuleSpec{
			{Name: "hdfc-ac", Priority: 10, AccountType: model.AccountBank,
				Pattern: `(?i)\bHDFC Bank A/?c\s*(?:no\.?\s*)?` + acNum},
			{Name: "hdfc-card", Priority: 20, AccountType: model.AccountCard,
				Pattern: `(?i)\bHDFC Bank (?:Credit |Debit )?Card\s*(?:no\.?\s*)?` + ending + acNum},
		},
		Amount: []RuleSpec{
			{Name: "hdfc-money-received", Priority: 10, Polarity: credit,
				Pattern: `(?i)\bMoney Received\s*-\s*` + amt},
			{Name: "hdfc-spent", Priority: 20, Polarity: debit,
				Pattern: `(?i)\bSpent\s+` + amt + `\s+On HDFC`},
			{Name: "hdfc-sent", Priority: 30, Polarity: debit,
				Pattern: `(?i)\bSent\s+` + amt + `\s+From HDFC`},
		},
		Merchant: []RuleSpec{
			{Name: "hdfc-at-on-timestamp", Priority: 10,
				Pattern: `(?i)\bAt\s+(?P<merchant>[A-Za-z0-9&][^;]*?)\s+On\s+\d{4}-\d{2}-\d{2}`},
			{Name: "hdfc-to-on", Priority: 20,
				Pattern: `(?i)\bTo\s+(?P<merchant>[A-Za-z][^;]*?)\s+On\s+\d`},
		},
		MerchantDelimiters: []string{`(?i)\bnot you\b`, `(?i)\bto block\b`},
	}
}

func iciciBank() GroupSpec {
	return GroupSpec{
		Name:     "icici-bank",
		Kind:     KindBank,
		Rank:     10,
		Keywords: []string{"ICICI Bank", "ICICIB", "ICICI"},
		Account: []RuleSpec{
			{Name: "icici-acct", Priority: 10, AccountType: model.AccountBank,
				Pattern: `(?i)\bAcct\s+` + acNum},
			{Name: "icici-card", Priority: 20, AccountType: model.AccountCard,
				Pattern: `(?i)\bICICI Bank (?:Credit )?Card\s+` + acNum},
		},
		Amount: []RuleSpec{
			{Name: "icici-acct-debited", Priority: 10, Polarity: debit,
				Pattern: `(?i)\bAcct\s+\S+\s+(?:is\s+)?debited\s+(?:for|with)\s+` + amt},
			{Name: "icici-acct-credited", Priority: 20, Polarity: credit,
				Pattern: `(?i)\bAcct\s+\S+\s+(?:is\s+)?credited\s+(?:for|with)\s+` + amt},
		},
		Merchant: []RuleSpec{
			{Name: "icici-payee-credited", Priority: 10,
				Pattern: `(?i);\s*(?P<merchant>[A-Za-z][^;.]*?)\s+credited\b`},
			{Name: "icici-on-date-on", Priority: 20,
				Pattern: `(?i)\bon\s+\d{1,2}-[A-Za-z]{3}-\d{2,4}\s+on\s+(?P<merchant>[A-Za-z].*)`},
		},
		MerchantDelimiters: []string{`(?i)\bif not you\b`},
	}
}

func sbi() GroupSpec {
	return GroupSpec{
		Name:       "sbi",
		Kind:       KindBank,
		Rank:       10,
		Keywords:   []string{"State Bank", "SBIINB", "SBIUPI", "YONO", "-SBI"},
		Structures: []string{`\bSBI\b`},
		Account: []RuleSpec{
			{Name: "sbi-ac-glued", Priority: 10, AccountType: model.AccountBank,
				Pattern: `(?i)\bA/c\s*` + acNum},
		},
		Amount: []RuleSpec{
			{Name: "sbi-debited-by", Priority: 10, Polarity: debit,
				Pattern: `(?i)\bdebited\s+by\s+` + optAmt},
			{Name: "sbi-credited-by", Priority: 20, Polarity: credit,
				Pattern: `(?i)\bcredited\s+by\s+` + optAmt},
		},
		Merchant: []RuleSpec{
			{Name: "sbi-trf-to", Priority: 10,
				Pattern: `(?i)\btrf to\s+(?P<merchant>[A-Za-z][^;]*?)\s+Ref\s*no\b`},
			{Name: "sbi-transfer-from", Priority: 20,
				Pattern: `(?i)\btransfer from\s+(?P<merchant>[A-Za-z][^;]*?)\s+Ref\s*no\b`},
		},
		MerchantDelimiters: []string{`(?i)\bif not u\b`, `(?i)\s-\s?SBI\b`},
	}
}

func axisBank() GroupSpec {
	return GroupSpec{
		Name:     "axis-bank",
		Kind:     KindBank,
		Rank:     10,
		Keywords: []string{"Axis Bank", "AXISBK"},
		Merchant: []RuleSpec{
			{Name: "axis-upi-path", Priority: 10,
				Pattern: `(?i)\bUPI/P2[MA]/\d+/(?P<merchant>[^/]+)`},
			{Name: "axis-after-ist", Priority: 20,
				Pattern: `(?i)\d{2}:\d{2}:\d{2}\s+IST\s+(?P<merchant>[A-Za-z].*)`},
		},
		MerchantDelimiters: []string{`(?i)\bnot you\b`, `(?i)\s+Axis Bank\b`},
	}
}

func kotakBank() GroupSpec {
	return GroupSpec{
		Name:     "kotak-bank",
		Kind:     KindBank,
		Rank:     10,
		Keywords: []string{"Kotak", "KOTAKB"},
		Account: []RuleSpec{
			{Name: "kotak-ac", Priority: 10, AccountType: model.AccountBank,
				Pattern: `(?i)\bKotak(?: Mahindra)? Bank A/?C\s+` + acNum},
			{Name: "kotak-card", Priority: 20, AccountType: model.AccountCard,
				Pattern: `(?i)\bKotak(?: Bank)? (?:Credit |Debit )?Card\s+` + ending + acNum},
		},
		MerchantDelimiters: []string{`(?i)\bnot you\b`, `(?i)https?://`},
	}
}

func fintechCards() GroupSpec {
	return GroupSpec{
		Name:     "fintech-cards",
		Kind:     KindCard,
		Rank:     5,
		Keywords: []string{"OneCard", "One Card", "slice", "Uni Card", "UniCard"},
		Account: []RuleSpec{
			{Name: "onecard", Priority: 10, AccountType: model.AccountCard, Label: "onecard",
				Pattern: `(?i)\bone\s?card\b(?:\s+(?:credit\s+)?card)?\s*` + ending + `(?:` + acNum + `)?`},
			{Name: "slice", Priority: 20, AccountType: model.AccountCard, Label: "slice",
				Pattern: `(?i)(?:\bslice\s+(?:credit\s+)?card\b|` + instrument + `slice\b(?:\s+(?:credit\s+)?card)?)\s*` + ending + `(?:` + acNum + `)?`},
			{Name: "uni-card", Priority: 30, AccountType: model.AccountCard, Label: "uni_card",
				Pattern: `(?i)\buni\s?card\b\s*` + ending + `(?:` + acNum + `)?`},
		},
	}
}

func creditCards() GroupSpec {
	return GroupSpec{
		Name:     "credit-card",
		Kind:     KindCard,
		Rank:     20,
		Keywords: []string{"credit card", "card ending", "cc ending", "card no"},
		Account: []RuleSpec{
			{Name: "credit-card-number", Priority: 10, AccountType: model.AccountCard,
				Pattern: `(?i)\bcredit card\s*(?:no\.?|number)?\s*` + ending + acNum},
			{Name: "card-ending", Priority: 20, AccountType: model.AccountCard,
				Pattern: `(?i)\b(?:card|cc)\s+ending\s*(?:with|in)?\s*[:\-]?\s*` + acNum},
		},
		Amount: []RuleSpec{
			{Name: "card-payment-received", Priority: 10, Polarity: credit,
				Pattern: `(?i)\bpayment\s+of\s+` + amt + words + `\s+(?:received|credited)\b`},
		},
		Outstanding: []RuleSpec{
			{Name: "card-total-due-outstanding", Priority: 10,
				Pattern: `(?i)\bcard\s+outstanding\s*(?:is|of|:|-)?\s*` + optAmt},
		},
	}
}

func paytmWallet() GroupSpec {
	return GroupSpec{
		Name:       "paytm-wallet",
		Kind:       KindWallet,
		Rank:       10,
		Keywords:   []string{"Paytm Wallet", "Paytm Balance", "Paytm Payments Bank"},
		Structures: []string{`(?i)(?:^|[^@\w.])paytm\b`},
		Account: []RuleSpec{
			{Name: "paytm-bank-ac", Priority: 10, AccountType: model.AccountBank, Label: "paytm",
				Pattern: `(?i)\bPaytm Payments Bank A/?c\s*` + acNum},
			{Name: "paytm-wallet", Priority: 20, AccountType: model.AccountWallet, Label: "paytm",
				Pattern: `(?i)\bpaytm\s+(?:wallet|balance)\b`},
			{Name: "paytm-bare", Priority: 30, AccountType: model.AccountWallet, Label: "paytm",
				Pattern: `(?i)(?:^|[^@\w.])paytm\b`},
		},
		Merchant: []RuleSpec{
			{Name: "paytm-paid-to-from", Priority: 10,
				Pattern: `(?i)\bpaid\s+INR ?` + num + `\s+to\s+(?P<merchant>[A-Za-z].*?)\s+from\s+paytm\b`},
		},
	}
}

func amazonPay() GroupSpec {
	return GroupSpec{
		Name:     "amazon-pay",
		Kind:     KindWallet,
		Rank:     10,
		Keywords: []string{"Amazon Pay", "AmazonPay", "APAY"},
		Account: []RuleSpec{
			{Name: "amazon-pay", Priority: 10, AccountType: model.AccountWallet, Label: "amazon_pay",
				Pattern: `(?i)(?:` + instrument + `amazon\s?pay\b|\bamazon\s?pay\s+(?:balance|wallet|later)\b)`},
		},
		MerchantDelimiters: []string{`(?i)\busing\b`},
	}
}

func payLater() GroupSpec {
	return GroupSpec{
		Name:     "pay-later",
		Kind:     KindWallet,
		Rank:     10,
		Keywords: []string{"Simpl", "LazyPay", "Lazy Pay"},
		Account: []RuleSpec{
			{Name: "simpl", Priority: 10, AccountType: model.AccountWallet, Label: "simpl",
				Pattern: `(?i)\bsimpl\b`},
			{Name: "lazypay", Priority: 20, AccountType: model.AccountWallet, Label: "lazypay",
				Pattern: `(?i)\blazy\s?pay\b`},
		},
		MerchantDelimiters: []string{`(?i)\busing\b`, `(?i)\bvia\b`},
	}
}

func upiChannel() GroupSpec {
	return GroupSpec{
		Name:       "upi",
		Kind:       KindChannel,
		Rank:       50,
		Keywords:   []string{"UPI", "VPA"},
		Structures: []string{`(?i)[\w.\-]+@` + upiHandles + `\b`},
		Reference: []RuleSpec{
			{Name: "upi-ref", Priority: 10,
				Pattern: `(?i)\bUPI\s*(?:Ref(?:erence)?|txn|transaction)\.?\s*(?:No|ID|#)?\.?\s*[:.\-]?\s*(?P<ref>\d{9,})`},
			{Name: "upi-path", Priority: 20,
				Pattern: `(?i)\bUPI[/:\-](?:(?:P2M|P2A|DR|CR)[/:\-])?(?P<ref>\d{9,})`},
		},
		Merchant: []RuleSpec{
			{Name: "upi-vpa", Priority: 10,
				Pattern: `(?i)\b(?:to|from)\s+VPA\s+(?P<merchant>[\w.\-]+@\w+)`},
			{Name: "upi-path-payee", Priority: 20,
				Pattern: `(?i)\bUPI/(?:(?:P2M|P2A|DR|CR)/)?\d+/(?P<merchant>[^/]+)`},
		},
	}
}

func generic() GroupSpec {
	return GroupSpec{
		Name: "generic",
		Kind: KindGeneric,
		Account: []RuleSpec{
			{Name: "card-number", Priority: 10, AccountType: model.AccountCard,
				Pattern: `(?i)\bcard\b\s*(?:no\.?|number)?\s*` + ending + `[:.\-]?\s*` + acNum},
			{Name: "bank-account", Priority: 20, AccountType: model.AccountBank,
				Pattern: `(?i)\b(?:a/c|acct|account|ac)\b\.?\s*(?:no\.?|number|num)?\s*[:.\-]?\s*` + ending + acNum},
			{Name: "wallet-name", Priority: 30, AccountType: model.AccountWallet,
				Pattern: `(?i)(?:^|[^@\w.])(?P<name>paytm|mobikwik|freecharge|amazon ?pay|phonepe|simpl|lazy ?pay)\b`},
			{Name: "bare-mask", Priority: 40, AccountType: model.AccountBank,
				Pattern: `(?i)\b(?:from|to|in)\s+(?:your\s+)?[Xx*]{2,}(?P<number>\d{3,})\b`},
		},
		Available: []RuleSpec{
			{Name: "qualified-balance", Priority: 10,
				Pattern: `(?i)\b(?:avl|avbl|available|avail|a/c|ac|acct|updated|total|new|clear|closing|net)\.?\s*(?:bal(?:ance)?|lmt|limit|credit limit|cr\.? limit)\b\.?\s*(?:is|of|:|-|=)?\s*[:\-]?\s*` + optAmt},
			{Name: "bare-balance", Priority: 20,
				Pattern: `(?i)\bbal(?:ance)?\b\.?\s*(?:is|of|:|-|=)?\s*[:\-]?\s*` + optAmt},
			{Name: "amount-available", Priority: 30,
				Pattern: `(?i)` + amt + `\s+(?:is\s+)?(?:available|avl)\b`},
		},
		Outstanding: []RuleSpec{
			{Name: "outstanding", Priority: 10,
				Pattern: `(?i)\b(?:total\s+)?(?:outstanding|o/s|outstdg)\b(?:\s+(?:amt|amount|balance|bal|dues?))?\s*(?:is|of|:|-|=)?\s*[:\-]?\s*` + optAmt},
		},
		Amount: []RuleSpec{
			{Name: "amount-then-debit-verb", Priority: 10, Polarity: debit,
				Pattern: `(?i)` + amt + `\s+` + has + debitVerbs + `\b`},
			{Name: "amount-then-credit-verb", Priority: 20, Polarity: credit,
				Pattern: `(?i)` + amt + `(?:\s+(?:cashback|refund|reward))?\s+` + has + creditVerbs + `\b`},
			{Name: "debit-verb-then-amount", Priority: 30, Polarity: debit,
				Pattern: `(?i)\b(?:debited|deducted|withdrawn|charged)\b(?:\s+(?:with|for|by|of|from))?` + words + `\s+` + amt},
			{Name: "credit-verb-then-amount", Priority: 40, Polarity: credit,
				Pattern: `(?i)\b(?:credited|deposited|added|refunded|reversed)\b(?:\s+(?:with|for|by|of|to))?` + words + `\s+` + amt},
			{Name: "spend-phrase", Priority: 50, Polarity: debit,
				Pattern: `(?i)\b(?:spent|paid|payment of|purchase of|txn of|transaction of|sent|withdrawal of|charged|used|debit of)\b(?:\s+\S+){0,4}?\s+` + amt},
			{Name: "income-phrase", Priority: 60, Polarity: credit,
				Pattern: `(?i)\b(?:received|deposit of|refund of|refund|cashback of|cashback|credit of)\b(?:\s+\S+){0,4}?\s+` + amt},
		},
		Reference: []RuleSpec{
			{Name: "ref-keyword", Priority: 10,
				Pattern: `(?i)\b(?:upi\s*)?(?:ref(?:erence)?|rrn|utr|txn\s*id|transaction\s*id|txn\s*ref|imps\s*ref)\.?\s*(?:no|number|id|#)?\.?\s*[:.\-#]?\s*(?P<ref>[A-Za-z0-9]*\d[A-Za-z0-9]{3,})`},
			{Name: "upi-path", Priority: 20,
				Pattern: `(?i)\bUPI[/:\-](?:(?:P2M|P2A|DR|CR)[/:\-])?(?P<ref>\d{9,})`},
			{Name: "imps-path", Priority: 30,
				Pattern: `(?i)\bIMPS(?:/|\s+)(?:P2A\s*/?\s*)?(?P<ref>\d{9,})`},
			{Name: "neft-utr", Priority: 40,
				Pattern: `\bNEFT\s*(?:Cr-|Dr-|-)?\s*(?P<ref>[A-Z]{4}[A-Z0-9]{8,})`},
		},
		Merchant: []RuleSpec{
			{Name: "vpa-keyword", Priority: 10,
				Pattern: `(?i)\bvpa[:\s]+(?P<merchant>[\w.\-]+@\w+)`},
			{Name: "vpa-handle", Priority: 20,
				Pattern: `(?i)(?:^|[\s(:/])(?P<merchant>[\w.\-]+@` + upiHandles + `)\b`},
			{Name: "at-then-date", Priority: 30,
				Pattern: `(?i)\bat\s+(?P<merchant>[A-Za-z&][^;]*?)\s+on\s+\d`},
			{Name: "at-tail", Priority: 40,
				Pattern: `(?i)\bat\s+(?P<merchant>[A-Za-z&][^;]*)`},
			{Name: "paid-to", Priority: 50,
				Pattern: `(?i)\b(?:sent|paid|transferred|transfer|trf)\b` + words + `\s+to\s+(?P<merchant>[A-Za-z][^;]*)`},
			{Name: "spent-on", Priority: 60,
				Pattern: `(?i)\b(?:spent|purchase|txn|transaction)\b(?:\s+\S+){0,8}?\s+on\s+(?P<merchant>[A-Za-z][A-Za-z0-9&'.\- ]*)`},
		},
		MerchantDelimiters: []string{
			`\.\s`,
			`\.$`,
			`,\s`,
			`(?i)\s+on\s`,
			`(?i)\s+on$`,
			`(?i)\b(?:avl|avbl|available|avail)\.?\s*(?:bal|lmt|limit|credit|cr)`,
			`(?i)\b(?:total|updated|net|clear|closing)\s+bal`,
			`(?i)\bbal(?:ance)?\b`,
			`(?i)\b(?:upi\s*)?ref(?:erence)?\b`,
			`(?i)\b(?:txn\s*id|rrn|utr)\b`,
			`(?i)\bnot you\b`,
			`(?i)\bif not\b`,
			`(?i)\bcall\b`,
			`(?i)\bsms\b`,
			`(?i)\bdial\b`,
			`(?i)\bvia\b`,
			`(?i)\bfrom\s+(?:your\s+)?(?:a/c|ac|acct|account|card)\b`,
			`(?i)\bINR\b`,
			`(?i)\s-\s*\w+(?:\s+\w+)?\s+bank\b`,
			`\(`,
		},
		MerchantRejects: []string{
			`(?i)^(?:your|the|my|a/c|ac|acct|account|card|wallet|bank|beneficiary)\b`,
			`(?i)^[Xx*]{2,}\d*$`,
			`^[\d\s:/\-.]+$`,
		},
	}
}
