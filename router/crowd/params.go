package crowd

// 闭区间小时段
type Band struct {
	From   int     `yaml:"from" validate:"gte=0,lte=23"`
	To     int     `yaml:"to" validate:"gte=0,lte=23"`
	Factor float64 `yaml:"factor"`
}

func (b Band) Contains(hour int) bool {
	return hour >= b.From && hour <= b.To
}

type Params struct {
	ActiveHours          float64            `yaml:"active_hours" validate:"gt=0"`
	PeakBands            []Band             `yaml:"peak_bands" validate:"dive"`
	PeakMultiplier       float64            `yaml:"peak_multiplier" validate:"gte=1"`
	VisualCapacityFactor float64            `yaml:"visual_capacity_factor" validate:"gt=0"`
	DefaultCapacity      float64            `yaml:"default_capacity" validate:"gt=0"`
	LineCapacity         map[string]float64 `yaml:"line_capacity"`
	// 线路编号 -> 客流列名，空列名表示无客流数据
	RouteToColumn       map[string]string  `yaml:"route_to_column"`
	BusyStations        map[string]float64 `yaml:"busy_stations"`
	BusyAliases         map[string]string  `yaml:"busy_aliases"`
	Interchanges        []string           `yaml:"interchanges"`
	InterchangeModifier float64            `yaml:"interchange_modifier" validate:"gte=1"`

	// 舒适度
	ComfortDailyDivisor    float64 `yaml:"comfort_daily_divisor" validate:"gt=0"`
	DefaultDailyRidership  float64 `yaml:"default_daily_ridership" validate:"gte=0"`
	ComfortPeakBands       []Band  `yaml:"comfort_peak_bands" validate:"dive"`
	DefaultComfortStops    int     `yaml:"default_comfort_stops" validate:"gt=0"`
	WalkComfortPerKm       float64 `yaml:"walk_comfort_per_km" validate:"gte=0"`
	TransferComfortPenalty float64 `yaml:"transfer_comfort_penalty" validate:"gte=0"`
	MaxComfort             float64 `yaml:"max_comfort" validate:"gt=0"`
}

func DefaultParams() Params {
	return Params{
		ActiveHours:          16,
		PeakBands:            []Band{{From: 8, To: 10}, {From: 17, To: 19}},
		PeakMultiplier:       1.5,
		VisualCapacityFactor: 5,
		DefaultCapacity:      500,
		LineCapacity: map[string]float64{
			"rail_lrt_ampang": 5000,
			"rail_mrt_kajang": 8000,
			"rail_lrt_kj":     4000,
			"rail_monorail":   3000,
			"rail_mrt_pjy":    6000,
		},
		RouteToColumn: map[string]string{
			"AG":  "rail_lrt_ampang",
			"PH":  "rail_lrt_ampang",
			"KJ":  "rail_lrt_kj",
			"KKJ": "rail_lrt_kj",
			"MR":  "rail_monorail",
			"MRT": "rail_mrt_kajang",
			"PYL": "rail_mrt_pjy",
			"BRT": "",
		},
		BusyStations: map[string]float64{
			"KL SENTRAL":         1.6,
			"MASJID JAMEK":       1.4,
			"PASAR SENI":         1.3,
			"HANG TUAH":          1.3,
			"BUKIT BINTANG":      1.4,
			"TRX":                1.4,
			"KLCC":               1.4,
			"TITIWANGSA":         1.2,
			"TUN RAZAK EXCHANGE": 1.4,
			"PUTRA HEIGHTS":      1.3,
			"CHAN SOW LIN":       1.2,
			"BANDARAYA":          1.1,
			"PWTC":               1.1,
			"SULTAN ISMAIL":      1.1,
			"PLAZA RAKYAT":       1.1,
			"MERDEKA":            1.2,
			"ABDULLAH HUKUM":     1.1,
		},
		BusyAliases: map[string]string{
			"KL SENTRAL REDONE":                 "KL SENTRAL",
			"BANDARAYA UOB":                     "BANDARAYA",
			"KAMPUNG BARU CBP COOPBANK PERTAMA": "KAMPUNG BARU",
			"SUNWAY SETIA JAYA":                 "SUNWAY SETIA JAYA",
			"SUNU MONASH":                       "SUNU MONASH",
			"SOUTH QUAY USJ 1":                  "SOUTH QUAY USJ 1",
			"MRT TRX":                           "TRX",
			"STESEN TRX":                        "TRX",
		},
		Interchanges: []string{
			"KL SENTRAL", "MASJID JAMEK", "PASAR SENI", "HANG TUAH", "CHAN SOW LIN",
			"PUTRA HEIGHTS", "TITIWANGSA", "PAVILION BUKIT BINTANG", "PAVILION DAMANSARA",
			"TUN RAZAK EXCHANGE", "MRT TRX", "TRX", "BANDARAYA", "SULTAN ISMAIL", "PWTC",
			"ABDULLAH HUKUM", "IOI PUCHONG JAYA", "USJ 7",
		},
		InterchangeModifier: 1.2,

		ComfortDailyDivisor:    300000,
		DefaultDailyRidership:  100000,
		ComfortPeakBands:       []Band{{From: 7, To: 9, Factor: 1.4}, {From: 17, To: 19, Factor: 1.5}},
		DefaultComfortStops:    8,
		WalkComfortPerKm:       0.15,
		TransferComfortPenalty: 0.3,
		MaxComfort:             3,
	}
}
