package sim

// Financial rates and fees.
const (
	DailyDebtRate            = 0.001  // interest accrued on outstanding debt per day
	DailyCashRate            = 0.0005 // interest earned on positive cash per day
	LoanCommissionRate       = 0.02   // commission on a regular loan
	SalaryLoanCommissionRate = 0.05   // commission on an automatic salary loan

	// MaterialFinanceMaxDebtToCash caps automatic financing of raw-material
	// orders. If the projected debt-to-cash ratio after the loan exceeds this,
	// the order is rejected instead of financed. Salary payments are exempt.
	MaterialFinanceMaxDebtToCash = 2.0
)

// Raw material supply chain.
const (
	MaterialLeadTimeDays = 4      // order placed on day d arrives on day d+4
	MaterialUnitCost     = 50.0   // per part
	MaterialOrderFee     = 1000.0 // flat fee per order
)

// Workforce.
const (
	RookieTrainingTime = 15  // elapsed days before a rookie becomes an expert
	RookieProductivity = 0.4 // rookie output relative to an expert
	ARCPUnitsPerWorker = 3.0 // assembly units per expert per day
	ExpertDailySalary  = 150.0
	RookieDailySalary  = 80.0
	HiringCost         = 5000.0 // one-time cost per rookie hired
	SeverancePay       = 2000.0 // one-time cost per employee fired
	WorkdayHours       = 8.0
	OvertimeMultiplier = 1.5 // overtime hourly rate relative to base
)

// Machine stations.
const (
	MCEUnitsPerMachinePerDay = 30 // first-stage material-consuming station
	WMAUnitsPerMachinePerDay = 6  // shared across both custom-line WMA passes
	PUCUnitsPerMachinePerDay = 6

	StandardPartsPerUnit = 2 // raw material parts per standard unit
	CustomPartsPerOrder  = 1

	MachinePurchaseCost = 20000.0
	MachineSaleRefund   = 10000.0
)

// Pipeline shape.
const (
	CustomLineMaxWIP = 360 // hard admission ceiling on in-flight custom orders

	Station2MaxWaitDays = 4 // standard line batching wait before ARCP
	Station3MaxWaitDays = 1 // standard line batching wait before finished goods
	Station3BatchSize   = 12
)

// Demand regime.
const (
	DemandPhaseSwitchDay = 173 // custom demand steps up 30% from this day on
	CustomDemandStepUp   = 1.3
)

// Fitness penalty weights applied to the monotone shortfall counters.
const (
	PenaltyRejectedOrder     = 200.0
	PenaltyStockoutDay       = 100.0
	PenaltyLostProductionDay = 150.0
)
