package model

import "strings"

const careerCSV = `primary_skills,industry,salary,work_environment,job_title,growth
problem-solving,tech,25k-40k,remote,Backend Developer,High
technical,tech,25k-40k,remote,Backend Developer,High
problem-solving,tech,40k-60k,hybrid,QA Engineer,Medium
communication,business,25k-40k,office,Sales Associate,Low
communication,business,15k-25k,office,Customer Service Representative,Low
hands-on,trade,15k-25k,field,Electrician,Medium
creative,creative,25k-40k,remote,Graphic Designer,Medium
`

func careerCatalog() *Catalog {
	c, err := ReadCSV(strings.NewReader(careerCSV), "job_title")
	if err != nil {
		panic(err)
	}
	return c
}

func careerBundle() *Bundle {
	b, err := Train(careerCatalog(), DefaultTrainSpecs["career"])
	if err != nil {
		panic(err)
	}
	return b
}
