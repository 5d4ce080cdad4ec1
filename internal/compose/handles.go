package compose

import "strings"

// Per-publisher maps from the journal code embedded in article URLs to the
// journal's social handle.
var (
	acsHandles = map[string]string{
		"acsaem": "acs_aem", "acsami": "acs_ami", "acsanm": "acs_anm", "acscatal": "ACSCatalysis",
		"acscentsci": "ACSCentSci", "acsenergylett": "ACSEnergyLett", "acsnano": "acsnano",
		"acssuschemeng": "ACSSustainable", "acs.chemrev": "ACSChemRev", "acs.chemmater": "ChemMater",
		"acs.cgd": "CGD_ACS", "acs.est": "EnvSciTech", "acs.inorgchem": "InorgChem",
		"jacs": "J_A_C_S", "acs.jcim": "JCIM_ACS", "acs.jpcb": "JPhysChem", "acs.jpcc": "JPhysChem",
		"acs.jpclett": "JPhysChem", "acs.langmuir": "ACS_Langmuir", "acs.nanolett": "NanoLetters",
	}
	rscHandles = map[string]string{
		"CY": "CatalysisSciTec", "CC": "ChemCommun", "SC": "ChemicalScience", "CS": "ChemSocRev",
		"CE": "CrystEngComm", "DT": "DaltonTrans", "EE": "EES_journal", "EN": "EnvSciRSC",
		"FD": "Faraday_D", "GC": "green_rsc", "TA": "JMaterChem", "TB": "JMaterChem",
		"TC": "JMaterChem", "NR": "Nanoscale_RSC", "CP": "PCCP", "SM": "SoftMatter",
	}
	natureHandles = map[string]string{
		"s41563": "NatureMaterials", "s41557": "NatureChemistry", "s42004": "CommsChem",
		"s41467": "NatureComms", "s41929": "NatureCatalysis", "s41560": "NatureEnergyJnl",
		"s41565": "NatureNano", "s41567": "NaturePhysics", "s42005": "CommsPhys",
		"s41570": "NatRevChem", "s41578": "NatRevMater",
	}
	wileyHandles = map[string]string{
		"adma": "AdvMater", "adfm": "AdvFunctMater", "anie": "angew_chem", "chem": "ChemEurJ",
		"asia": "ChemAsianJ", "cplu": "ChemPlusChem", "cphc": "ChemPhysChem", "slct": "ChemistrySelect",
	}
	apsHandles = map[string]string{
		"PhysRevLett": "PhysRevLett", "PhysRevX": "PhysRevX", "PhysRevB": "PhysRevB",
		"PhysRevMaterials": "PhysRevMater",
	}
)

// JournalHandle maps an article URL to the journal's social handle, for the
// major publishers whose URL layout encodes the journal. Returns "" when the
// journal is unknown.
func JournalHandle(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "doi.org/10.1021/"):
		// e.g. .../jacs.9b01234 -> jacs
		j := lastSegment(rawURL)
		if i := strings.LastIndex(j, "."); i > 0 {
			return acsHandles[j[:i]]
		}
	case strings.Contains(rawURL, "pubs.rsc.org/en/Content/ArticleLanding"):
		parts := strings.Split(rawURL, "/")
		if len(parts) >= 2 {
			j := strings.SplitN(parts[len(parts)-2], ".", 2)[0]
			return rscHandles[j]
		}
	case strings.Contains(rawURL, "www.nature.com/articles"):
		j := strings.SplitN(lastSegment(rawURL), "-", 2)[0]
		return natureHandles[j]
	case strings.Contains(rawURL, "onlinelibrary.wiley.com/doi/abs/10.1002/"):
		j := strings.SplitN(lastSegment(rawURL), ".", 2)[0]
		return wileyHandles[j]
	case strings.Contains(rawURL, "link.aps.org/doi/10.1103/"):
		j := strings.SplitN(lastSegment(rawURL), ".", 2)[0]
		return apsHandles[j]
	case strings.Contains(rawURL, "chemrxiv.org/"):
		return "chemRxiv"
	case strings.Contains(rawURL, "advances.sciencemag.org/"):
		return "ScienceAdvances"
	case strings.Contains(rawURL, "science.sciencemag.org/"):
		return "ScienceMagazine"
	case strings.Contains(rawURL, "aip.scitation.org/doi/10.1063/"):
		return "AIP_Publishing"
	}
	return ""
}

func lastSegment(rawURL string) string {
	parts := strings.Split(rawURL, "/")
	return parts[len(parts)-1]
}
