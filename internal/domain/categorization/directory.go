package categorization

// Merchant is an entry in the built-in directory of merchants that show up
// in Indian bank, card and UPI messages.
type Merchant struct {
	Pattern   string
	CleanName string
	Category  Category
}

// DefaultMerchants returns the built-in merchant directory.
func DefaultMerchants() []Merchant {
	return []Merchant{
		// Food & Dining
		{"SWIGGY", "Swiggy", FoodDining},
		{"ZOMATO", "Zomato", FoodDining},
		{"DOMINOS", "Domino's", FoodDining},
		{"MCDONALDS", "McDonald's", FoodDining},
		{"KFC", "KFC", FoodDining},
		{"STARBUCKS", "Starbucks", FoodDining},
		{"BURGER KING", "Burger King", FoodDining},
		{"PIZZA HUT", "Pizza Hut", FoodDining},
		{"CAFE COFFEE DAY", "Cafe Coffee Day", FoodDining},
		{"HALDIRAM", "Haldiram's", FoodDining},
		{"BLINKIT", "Blinkit", FoodDining},
		{"ZEPTO", "Zepto", FoodDining},
		{"BIGBASKET", "BigBasket", FoodDining},
		{"DUNZO", "Dunzo", FoodDining},
		{"EATSURE", "EatSure", FoodDining},

		// Transportation
		{"UBER", "Uber", Transportation},
		{"OLA", "Ola", Transportation},
		{"OLACABS", "Ola", Transportation},
		{"RAPIDO", "Rapido", Transportation},
		{"IRCTC", "IRCTC", Transportation},
		{"REDBUS", "redBus", Transportation},
		{"INDIGO", "IndiGo", Transportation},
		{"AIR INDIA", "Air India", Transportation},
		{"SPICEJET", "SpiceJet", Transportation},
		{"MAKEMYTRIP", "MakeMyTrip", Transportation},
		{"FASTAG", "FASTag", Transportation},
		{"METRO", "Metro", Transportation},
		{"INDIAN OIL", "Indian Oil", Transportation},
		{"IOCL", "Indian Oil", Transportation},
		{"HPCL", "HPCL", Transportation},
		{"BPCL", "BPCL", Transportation},

		// Shopping
		{"AMAZON", "Amazon", Shopping},
		{"FLIPKART", "Flipkart", Shopping},
		{"MYNTRA", "Myntra", Shopping},
		{"AJIO", "AJIO", Shopping},
		{"NYKAA", "Nykaa", Shopping},
		{"MEESHO", "Meesho", Shopping},
		{"TATA CLIQ", "Tata CLiQ", Shopping},
		{"CROMA", "Croma", Shopping},
		{"RELIANCE DIGITAL", "Reliance Digital", Shopping},
		{"DECATHLON", "Decathlon", Shopping},
		{"IKEA", "IKEA", Shopping},
		{"DMART", "DMart", Shopping},

		// Entertainment
		{"BOOKMYSHOW", "BookMyShow", Entertainment},
		{"PVR", "PVR", Entertainment},
		{"INOX", "INOX", Entertainment},
		{"STEAM", "Steam", Entertainment},
		{"PLAYSTATION", "PlayStation", Entertainment},

		// Utilities
		{"BESCOM", "BESCOM", Utilities},
		{"TATA POWER", "Tata Power", Utilities},
		{"ADANI ELECTRICITY", "Adani Electricity", Utilities},
		{"MAHANAGAR GAS", "Mahanagar Gas", Utilities},
		{"JIO", "Jio", Utilities},
		{"AIRTEL", "Airtel", Utilities},
		{"VODAFONE", "Vi", Utilities},
		{"BSNL", "BSNL", Utilities},
		{"ACT FIBERNET", "ACT Fibernet", Utilities},

		// Healthcare
		{"APOLLO", "Apollo", Healthcare},
		{"PHARMEASY", "PharmEasy", Healthcare},
		{"NETMEDS", "Netmeds", Healthcare},
		{"TATA 1MG", "Tata 1mg", Healthcare},
		{"PRACTO", "Practo", Healthcare},
		{"MEDPLUS", "MedPlus", Healthcare},

		// Education
		{"UDEMY", "Udemy", Education},
		{"COURSERA", "Coursera", Education},
		{"UNACADEMY", "Unacademy", Education},
		{"BYJUS", "BYJU'S", Education},

		// Investment
		{"ZERODHA", "Zerodha", Investment},
		{"GROWW", "Groww", Investment},
		{"UPSTOX", "Upstox", Investment},
		{"KUVERA", "Kuvera", Investment},
		{"MUTUAL FUND", "Mutual Fund", Investment},

		// Subscription
		{"NETFLIX", "Netflix", Subscription},
		{"SPOTIFY", "Spotify", Subscription},
		{"HOTSTAR", "Disney+ Hotstar", Subscription},
		{"AMAZON PRIME", "Amazon Prime", Subscription},
		{"PRIME VIDEO", "Amazon Prime", Subscription},
		{"YOUTUBE PREMIUM", "YouTube Premium", Subscription},
		{"SONYLIV", "SonyLIV", Subscription},
		{"APPLE.COM/BILL", "Apple", Subscription},

		// Bill Payment
		{"CRED", "CRED", BillPayment},
		{"BILLDESK", "BillDesk", BillPayment},
	}
}

// signals are phrases in the message body that settle the category on
// their own, whatever the merchant.
func signals() []Merchant {
	return []Merchant{
		{"REFUND", "", Refund},
		{"REFUNDED", "", Refund},
		{"REVERSAL", "", Refund},
		{"REVERSED", "", Refund},
		{"CASHBACK", "", Refund},
		{"SALARY", "", Salary},
		{"SAL CREDIT", "", Salary},
		{"ATM", "", CashWithdrawal},
		{"CASH WITHDRAWAL", "", CashWithdrawal},
		{"CASH WDL", "", CashWithdrawal},
		{"BILL PAYMENT", "", BillPayment},
		{"BILLPAY", "", BillPayment},
		{"BBPS", "", BillPayment},
		{"EMI", "", BillPayment},
		{"AUTOPAY", "", Subscription},
		{"E-MANDATE", "", Subscription},
		{"MANDATE", "", Subscription},
		{"STANDING INSTRUCTION", "", Subscription},
		{"SIP", "", Investment},
	}
}
