package server

import (
    "errors"
    "fmt"
    "mime/multipart"
    "net/http"
    "os"
    "strconv"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "frauddetect/internal/report"
    "frauddetect/internal/scoring"
    "frauddetect/internal/table"
)

var errNoFile = errors.New("no file uploaded")

func (s *Server) handleIndex(c *gin.Context) {
    c.HTML(http.StatusOK, "index", pageView{Theme: s.opts.Theme, Info: infoBanner})
}

// openUpload returns the multipart "file" part, bounded by UploadMaxBytes.
func (s *Server) openUpload(c *gin.Context) (multipart.File, error) {
    tooLarge := fmt.Errorf("upload exceeds %s bytes", report.Count(int(s.opts.UploadMaxBytes)))
    if c.Request.ContentLength > s.opts.UploadMaxBytes { return nil, tooLarge }
    c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.UploadMaxBytes)
    fh, err := c.FormFile("file")
    if err != nil {
        var mbe *http.MaxBytesError
        if errors.As(err, &mbe) { return nil, tooLarge }
        return nil, errNoFile
    }
    return fh.Open()
}

func (s *Server) handleUpload(c *gin.Context) {
    view := pageView{Theme: s.opts.Theme}

    f, err := s.openUpload(c)
    if errors.Is(err, errNoFile) {
        view.Info = infoBanner
        c.HTML(http.StatusBadRequest, "index", view)
        return
    }
    if err != nil {
        view.Error = "File error: " + err.Error()
        c.HTML(http.StatusRequestEntityTooLarge, "index", view)
        return
    }
    defer f.Close()

    in, res, err := s.pipeline.Run(f)
    if in != nil { view.Preview = in.Head(s.opts.PreviewRows) }
    if err != nil {
        view.Error = Banner(err)
        c.HTML(statusFor(err), "index", view)
        return
    }

    if err := s.fillResults(&view, res); err != nil {
        s.logger.Error("render results", zap.Error(err))
        view.Error = "Prediction error: " + err.Error()
        c.HTML(http.StatusInternalServerError, "index", view)
        return
    }
    c.HTML(http.StatusOK, "index", view)
}

func (s *Server) fillResults(view *pageView, res *scoring.Result) error {
    out := res.Table()
    csvBytes, err := table.Bytes(out)
    if err != nil { return err }

    p, err := report.FraudPie(res.Summary, s.opts.Theme.FraudColor, s.opts.Theme.NonFraudColor)
    if err != nil { return err }
    png, err := report.RenderPNG(p, report.DefaultChartWidth, report.DefaultChartWidth)
    if err != nil { return err }

    view.Model = res.Model
    view.TotalRows = out.NumRows()
    view.Results = out.Head(maxResultRows)
    view.ShownRows = view.Results.NumRows()
    sum := res.Summary
    view.Metrics = []metricView{
        {Label: "Total Cases", Value: report.Count(sum.Total)},
        {Label: "Fraudulent Cases", Value: report.Count(sum.Fraud), Delta: report.Percent(sum.FraudShare()), Inverse: true},
        {Label: "Non-Fraudulent Cases", Value: report.Count(sum.NonFraud), Delta: report.Percent(sum.NonFraudShare())},
    }
    view.ChartURI = dataURI("image/png", png)
    view.CSVURI = dataURI("text/csv", csvBytes)
    view.CSVName = resultsFileName
    return nil
}

func apiError(c *gin.Context, status int, kind, msg string, err error) {
    c.AbortWithStatusJSON(status, gin.H{"error": msg, "kind": kind, "message": err.Error()})
}

// scoreUpload runs the pipeline on the uploaded file and writes the JSON
// error itself when it fails.
func (s *Server) scoreUpload(c *gin.Context) (*scoring.Result, bool) {
    f, err := s.openUpload(c)
    if err != nil {
        status := http.StatusRequestEntityTooLarge
        if errors.Is(err, errNoFile) { status = http.StatusBadRequest }
        apiError(c, status, scoring.KindParse, "File error: "+err.Error(), err)
        return nil, false
    }
    defer f.Close()

    _, res, err := s.pipeline.Run(f)
    if err != nil {
        apiError(c, statusFor(err), scoring.Kind(err), Banner(err), err)
        return nil, false
    }
    return res, true
}

func (s *Server) handlePredict(c *gin.Context) {
    res, ok := s.scoreUpload(c)
    if !ok { return }
    c.JSON(http.StatusOK, gin.H{
        "model":       res.Model,
        "summary":     res.Summary,
        "predictions": res.Predictions,
    })
}

func (s *Server) handlePredictCSV(c *gin.Context) {
    res, ok := s.scoreUpload(c)
    if !ok { return }
    c.Header("Content-Disposition", `attachment; filename="`+resultsFileName+`"`)
    c.Header("Content-Type", "text/csv; charset=utf-8")
    c.Status(http.StatusOK)
    if err := table.Write(c.Writer, res.Table()); err != nil {
        s.logger.Error("write results csv", zap.Error(err))
    }
}

func (s *Server) handleChart(c *gin.Context) {
    fraud, err1 := strconv.Atoi(c.DefaultQuery("fraud", "0"))
    nonFraud, err2 := strconv.Atoi(c.DefaultQuery("non_fraud", "0"))
    if err1 != nil || err2 != nil || fraud < 0 || nonFraud < 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "fraud and non_fraud must be non-negative integers"})
        return
    }
    sum := scoring.Summary{Total: fraud + nonFraud, Fraud: fraud, NonFraud: nonFraud}
    p, err := report.FraudPie(sum, s.opts.Theme.FraudColor, s.opts.Theme.NonFraudColor)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    png, err := report.RenderPNG(p, report.DefaultChartWidth, report.DefaultChartWidth)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleHealth(c *gin.Context) {
    body := gin.H{"model_algo": s.opts.ModelAlgo, "model_path": s.opts.ModelPath}
    if s.opts.ModelPath != "" {
        if _, err := os.Stat(s.opts.ModelPath); err != nil {
            body["status"] = "degraded"
            body["error"] = err.Error()
            c.JSON(http.StatusServiceUnavailable, body)
            return
        }
    }
    body["status"] = "ok"
    c.JSON(http.StatusOK, body)
}
