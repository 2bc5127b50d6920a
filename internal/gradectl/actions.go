package gradectl

// Indirection layer to allow stubbing in tests

var (
	fnDetect  = detectText
	fnPredict = predictText
	fnCompare = compareAnswers
	fnGrade   = gradeFile

	fnProcessPhoto   = processPhoto
	fnExtractExam    = extractExam
	fnExtractAnswers = extractAnswers
	fnGetExam        = getExam

	fnIngest = ingestFiles

	fnSystemStatus = systemStatus
	fnHealth       = health
)
