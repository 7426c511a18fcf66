package question

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exerrors "github.com/a3tai/pdf-question-extractor/internal/errors"
)

const twoQuestions = "QUESTION NO: 1\nWhat is 2+2?\nA. 3\nB. 4\nC. 5\nD. 6\nANSWER: B\n" +
	"Explanation: Basic math. Reference: Arithmetic Guide.\n" +
	"QUESTION NO: 2\nWhich layer of the OSI model handles routing between networks?\n" +
	"A. Physical\nB. Data link\nC. Network\nD. Transport\nANSWER: C\n" +
	"Explanation: Routers operate at layer 3.\n"

func newTestAssembler(debug bool) (*Assembler, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewAssembler(log.New(&buf, "", 0), debug), &buf
}

func TestAssembler_Parse_EndToEnd(t *testing.T) {
	a, logs := newTestAssembler(false)

	results := a.Parse(twoQuestions)
	require.Len(t, results, 2)
	records := Records(results)
	require.Len(t, records, 2)
	assert.Empty(t, Failures(results))
	assert.Empty(t, logs.String())

	first := records[0]
	assert.Equal(t, "1", first.QuestionNo())
	assert.Equal(t, "What is 2+2?", first.Statement())
	assert.Equal(t, "B", first.CorrectAnswer())
	assert.Equal(t, "4", first.Option("B"))
	assert.Equal(t, "Arithmetic Guide", first.Reference())
	assert.Equal(t, "Basic math.", first.Explanation())
	// "What is 2+2?" is shorter than MinTextStatementLength
	assert.Equal(t, TypeImage, first.Type())

	second := records[1]
	assert.Equal(t, "2", second.QuestionNo())
	assert.Equal(t, TypeText, second.Type())
	assert.Equal(t, "C", second.CorrectAnswer())
	assert.Equal(t, "Transport", second.Option("D"))
	assert.Equal(t, "Routers operate at layer 3.", second.Explanation())
	assert.Equal(t, "", second.Reference())
}

func TestAssembler_Parse_OrderFollowsMarkers(t *testing.T) {
	a, _ := newTestAssembler(false)
	raw := "QUESTION NO: 9\nA. a\nANSWER: A\nQUESTION NO: 3\nA. a\nANSWER: A\nQUESTION NO: 9\nA. a\nANSWER: A\n"

	var got []string
	for _, r := range Records(a.Parse(raw)) {
		got = append(got, r.QuestionNo())
	}
	assert.Equal(t, []string{"9", "3", "9"}, got)
}

func TestAssembler_DegradedRecordIsKept(t *testing.T) {
	a, logs := newTestAssembler(true)

	rec, err := a.Assemble(Block{
		QuestionNo: "4",
		Content:    "\nWhich command lists files in a directory?\nA. ls\nB. cd\nC. rm\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "ls", rec.Option("A"))
	assert.Equal(t, "rm", rec.Option("C"))
	assert.Equal(t, "", rec.Option("D"))
	assert.Equal(t, "", rec.CorrectAnswer())
	assert.Len(t, rec.Options(), 4)
	assert.Contains(t, logs.String(), "missing option(s) D")
	assert.Contains(t, logs.String(), "no answer detected")
}

func TestAssembler_MalformedBlocks(t *testing.T) {
	tests := []struct {
		name  string
		block Block
	}{
		{"empty content", Block{QuestionNo: "5", Content: " \n\t "}},
		{"control characters only", Block{QuestionNo: "6", Content: "\x00\x01"}},
		{"blank lines only", Block{QuestionNo: "7", Content: "\n\r\n  \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAssembler(false)
			rec, err := a.Assemble(tt.block)
			require.Error(t, err)
			assert.True(t, exerrors.IsType(err, exerrors.ErrorTypeMalformedQuestionBlock))
			assert.Contains(t, err.Error(), "question "+tt.block.QuestionNo)
			assert.Equal(t, Record{}, rec)
		})
	}
}

func TestAssembler_MalformedBlockIsIsolated(t *testing.T) {
	a, logs := newTestAssembler(false)
	raw := "QUESTION NO: 1\nFirst question statement that is long enough?\nA. x\nB. y\nC. z\nD. w\nANSWER: A\n" +
		"QUESTION NO: 2\n \t \n" +
		"QUESTION NO: 3\nThird question statement that is long enough?\nA. x\nB. y\nC. z\nD. w\nANSWER: D\n"

	results := a.Parse(raw)
	require.Len(t, results, 3)
	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())

	records := Records(results)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].QuestionNo())
	assert.Equal(t, "3", records[1].QuestionNo())
	assert.Equal(t, "D", records[1].CorrectAnswer())

	failures := Failures(results)
	require.Len(t, failures, 1)
	assert.True(t, exerrors.IsType(failures[0], exerrors.ErrorTypeMalformedQuestionBlock))
	assert.Contains(t, logs.String(), "Error parsing question 2")
}

func TestAssembler_StatementAndExplanationBlock(t *testing.T) {
	a, _ := newTestAssembler(false)

	rec, err := a.Assemble(Block{
		QuestionNo: "12",
		Content:    "\nDescribe how a TLS handshake negotiates the session keys.\nExplanation: The client and server agree on keys during the handshake.\n",
	})
	require.NoError(t, err)
	assert.Equal(t, "12", rec.QuestionNo())
	assert.True(t, strings.HasPrefix(rec.Statement(), "Describe how a TLS handshake negotiates the session keys."))
	assert.Equal(t, "The client and server agree on keys during the handshake.", rec.Explanation())
	assert.Equal(t, "", rec.CorrectAnswer())
	assert.Equal(t, []string{"A", "B", "C", "D"}, missingOptions(rec))
}

func TestAssembler_ProseBlockIsDegraded(t *testing.T) {
	a, _ := newTestAssembler(false)

	rec, err := a.Assemble(Block{QuestionNo: "7", Content: "\nThis page intentionally left blank\n"})
	require.NoError(t, err)
	assert.Equal(t, "This page intentionally left blank", rec.Statement())
	assert.Equal(t, "", rec.CorrectAnswer())
}

func TestAssembler_AnswerOnlyBlock(t *testing.T) {
	a, _ := newTestAssembler(false)

	rec, err := a.Assemble(Block{QuestionNo: "8", Content: "\nRefer to the exhibit.\nANSWER: b\n"})
	require.NoError(t, err)
	assert.Equal(t, "B", rec.CorrectAnswer())
	assert.Equal(t, TypeImage, rec.Type())
	assert.Equal(t, "Refer to the exhibit.\nANSWER: b", rec.Statement())
}

func TestAssembler_NilLogger(t *testing.T) {
	a := NewAssembler(nil, false)
	require.NotNil(t, a)
	assert.NotNil(t, a.logger)
}
