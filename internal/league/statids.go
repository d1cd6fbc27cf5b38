package league

// Static stat-ID tables per sport. League settings only name the categories
// the league scores on; the stats endpoint reports many more, so these tables
// give the extras a display name. Settings-derived names win on overlap.

func staticStatIDMap(gameCode string) map[int]string {
	switch gameCode {
	case "mlb":
		return mlbStatIDMap()
	case "nhl":
		return nhlStatIDMap()
	default:
		return map[int]string{}
	}
}

func mlbStatIDMap() map[int]string {
	return map[int]string{
		0: "G", 2: "GS", 3: "AVG", 4: "OBP", 5: "SLG", 6: "AB", 7: "R",
		8: "H", 9: "1B", 10: "2B", 11: "3B", 12: "HR", 13: "RBI",
		14: "SH", 15: "SF", 16: "SB", 17: "CS", 18: "BB", 19: "IBB",
		20: "HBP", 21: "SO", 22: "GDP", 23: "TB", 25: "GS", 26: "ERA",
		27: "WHIP", 28: "W", 29: "L", 32: "SV", 34: "H", 35: "BF",
		36: "R", 37: "ER", 38: "HR", 39: "BB", 40: "IBB", 41: "HBP",
		42: "K", 43: "BK", 44: "WP", 48: "HLD", 50: "IP", 51: "PO",
		52: "A", 53: "E", 54: "FLD%", 55: "OPS", 56: "SO/W", 57: "SO9",
		65: "PA", 84: "BS", 85: "NSV", 87: "DP",
		1001: "CT%", 1002: "ISO", 1003: "SL", 1004: "P/PA", 1005: "TOB",
		1006: "GB", 1007: "FB", 1008: "GB/FB", 1009: "GB%", 1010: "FB%",
		1011: "RC", 1012: "GDPR", 1013: "BABIP", 1014: "wOBA",
		1015: "wRAA", 1016: "OPS+", 1017: "FR", 1018: "P/IP", 1019: "P/S",
		1020: "GB/FB", 1021: "GB%", 1022: "FB%", 1024: "STR",
		1025: "IRS%", 1026: "RS", 1027: "RS/9", 1028: "AVG",
		1029: "OBP", 1030: "SLG", 1031: "BABIP", 1032: "FIP",
		1033: "WAR", 1034: "ERA-", 1035: "HR/FB%", 1036: "HR/FB%",
		1037: "GB", 1038: "FB", 1039: "SB%", 1040: "bWAR",
		1041: "brWAR", 1042: "WAR",
	}
}

func nhlStatIDMap() map[int]string {
	return map[int]string{
		0: "GP", 1: "G", 2: "A", 3: "PTS", 4: "+/-", 5: "PIM",
		6: "PPG", 7: "PPA", 8: "PPP", 12: "GWG", 14: "SOG", 15: "S%",
		18: "GS", 19: "W", 20: "L", 22: "GA", 23: "GAA",
		24: "SA", 25: "SV", 26: "SV%", 27: "SHO", 28: "MIN",
		1001: "PPT", 1002: "Avg-PPT", 1003: "SHT", 1004: "Avg-SHT",
		1005: "COR", 1006: "FEN", 1007: "Off-ZS", 1008: "Def-ZS",
		1009: "ZS-Pct", 1010: "GStr", 1011: "Shifts",
	}
}
